package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReviewStatus_IsTerminal(t *testing.T) {
	assert.False(t, ReviewStatusPending.IsTerminal())
	assert.True(t, ReviewStatusApproved.IsTerminal())
	assert.True(t, ReviewStatusRejected.IsTerminal())
}

func TestReviewStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, ReviewStatusPending.CanTransitionTo(ReviewStatusApproved))
	assert.True(t, ReviewStatusPending.CanTransitionTo(ReviewStatusRejected))

	// Terminal states permit no further transitions.
	assert.False(t, ReviewStatusApproved.CanTransitionTo(ReviewStatusRejected))
	assert.False(t, ReviewStatusApproved.CanTransitionTo(ReviewStatusPending))
	assert.False(t, ReviewStatusRejected.CanTransitionTo(ReviewStatusApproved))
	assert.False(t, ReviewStatusRejected.CanTransitionTo(ReviewStatusPending))

	assert.False(t, ReviewStatusPending.CanTransitionTo(ReviewStatusPending))
}

func TestDecision_TargetStatus(t *testing.T) {
	status, ok := DecisionApprove.TargetStatus()
	assert.True(t, ok)
	assert.Equal(t, ReviewStatusApproved, status)

	status, ok = DecisionReject.TargetStatus()
	assert.True(t, ok)
	assert.Equal(t, ReviewStatusRejected, status)

	_, ok = Decision("escalate").TargetStatus()
	assert.False(t, ok)
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleTeamMember.Valid())
	assert.False(t, Role("superuser").Valid())
	assert.False(t, Role("").Valid())
}
