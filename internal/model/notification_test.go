package model

import "testing"

func TestNormalizePriority(t *testing.T) {
	cases := []struct {
		in   string
		want NotificationPriority
	}{
		{"low", PriorityLow},
		{"medium", PriorityMedium},
		{"high", PriorityHigh},
		{"", PriorityMedium},
		{"urgent", PriorityMedium},
	}

	for _, tc := range cases {
		if got := NormalizePriority(tc.in); got != tc.want {
			t.Errorf("NormalizePriority(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNavigationTarget(t *testing.T) {
	cases := []struct {
		kind NotificationKind
		want string
	}{
		{NotificationInquiry, "/dashboard/inquiries"},
		{NotificationOrder, "/dashboard/orders"},
		{NotificationAppointment, "/dashboard/appointments"},
		{NotificationUser, "/dashboard/users"},
		{NotificationSystem, "/dashboard"},
		{NotificationKind("unknown"), "/dashboard"},
	}

	for _, tc := range cases {
		n := &Notification{Kind: tc.kind}
		if got := n.NavigationTarget(); got != tc.want {
			t.Errorf("NavigationTarget(%s) = %q, want %q", tc.kind, got, tc.want)
		}
	}
}
