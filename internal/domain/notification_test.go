package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotification_IsActionable(t *testing.T) {
	n := &Notification{Kind: NotificationKindActionable}
	assert.True(t, n.IsActionable())

	n.Kind = NotificationKindInformational
	assert.False(t, n.IsActionable())
}

func TestNotification_IsTerminal(t *testing.T) {
	tests := []struct {
		status NotificationStatus
		want   bool
	}{
		{NotificationStatusPending, false},
		{NotificationStatusAccepted, true},
		{NotificationStatusRejected, true},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			n := &Notification{Status: tt.status}
			assert.Equal(t, tt.want, n.IsTerminal())
		})
	}
}

func TestBarterRequest_IsTerminal(t *testing.T) {
	tests := []struct {
		status BarterStatus
		want   bool
	}{
		{BarterStatusPending, false},
		{BarterStatusAccepted, true},
		{BarterStatusRejected, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			b := &BarterRequest{Status: tt.status}
			assert.Equal(t, tt.want, b.IsTerminal())
		})
	}
}
