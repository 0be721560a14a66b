package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrdesk/internal/domain"
)

func TestRenderBadge(t *testing.T) {
	assert.Nil(t, RenderBadge(domain.VerificationNone, ""))
	assert.Nil(t, RenderBadge("", "ignored"))

	pending := RenderBadge(domain.VerificationPending, "")
	require.NotNil(t, pending)
	assert.Equal(t, Badge{Label: "Pending Verification", Variant: "warning"}, *pending)

	verified := RenderBadge(domain.VerificationVerified, "")
	require.NotNil(t, verified)
	assert.Equal(t, Badge{Label: "Verified", Variant: "success"}, *verified)
}

func TestRenderBadge_Rejected(t *testing.T) {
	withReason := RenderBadge(domain.VerificationRejected, "blurry photo")
	require.NotNil(t, withReason)
	assert.Equal(t, "Rejected", withReason.Label)
	assert.Equal(t, "destructive", withReason.Variant)
	assert.Equal(t, "blurry photo", withReason.Tooltip)
	assert.Equal(t, "blurry photo", withReason.InlineReason)

	bare := RenderBadge(domain.VerificationRejected, "")
	require.NotNil(t, bare)
	assert.Empty(t, bare.Tooltip)
	assert.Empty(t, bare.InlineReason)
}
