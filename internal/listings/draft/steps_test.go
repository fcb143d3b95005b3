package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estatedesk/estate-backend/internal/listings/domain"
)

func validBasicStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(ModeCreate, nil)
	require.NoError(t, s.UpdateFields(map[string]any{
		"developer_name": "Example Developer",
		"project_name":   "Marina Heights",
		"city":           "Dubai",
		"usage":          domain.UsageResidential,
		"status":         domain.StatusUpcoming,
	}))
	return s
}

func TestNavigator_NextBlockedOnMissingName(t *testing.T) {
	s := validBasicStore(t)
	require.NoError(t, s.UpdateField("project_name", ""))
	n := NewNavigator(s)

	ok := n.Next()

	assert.False(t, ok)
	assert.Equal(t, StepBasic, n.Current(), "failed validation must not advance")
	assert.Contains(t, s.Errors, "project_name")
}

func TestNavigator_NextAdvances(t *testing.T) {
	s := validBasicStore(t)
	n := NewNavigator(s)

	assert.True(t, n.Next())
	assert.Equal(t, StepContact, n.Current())
}

func TestNavigator_PrevNeverValidates(t *testing.T) {
	s := NewStore(ModeCreate, nil) // invalid everywhere
	n := NewNavigator(s)
	require.NoError(t, n.GoTo(StepPricing))

	n.Prev()
	assert.Equal(t, StepContact, n.Current())

	n.Prev()
	n.Prev() // already at the first step
	assert.Equal(t, StepBasic, n.Current())
}

func TestNavigator_GoToBypassesValidation(t *testing.T) {
	s := NewStore(ModeCreate, nil)
	n := NewNavigator(s)

	require.NoError(t, n.GoTo(StepMediaSEO))
	assert.Equal(t, StepMediaSEO, n.Current())

	assert.Error(t, n.GoTo(Step(0)))
	assert.Error(t, n.GoTo(Step(7)))
}

func TestNavigator_FinalStepSEOMismatch(t *testing.T) {
	s := validBasicStore(t)
	require.NoError(t, s.UpdateField("seo_city", "Abu Dhabi"))
	n := NewNavigator(s)
	require.NoError(t, n.GoTo(StepMediaSEO))

	ok := n.Next()

	assert.False(t, ok)
	assert.Equal(t, StepMediaSEO, n.Current())
	assert.Contains(t, s.Errors, "seo_city")

	t.Run("matching SEO fields pass and stay on the final step", func(t *testing.T) {
		require.NoError(t, s.UpdateField("seo_city", "Dubai"))
		require.NoError(t, s.UpdateField("seo_developer_name", "Example Developer"))

		assert.True(t, n.Next())
		assert.Equal(t, StepMediaSEO, n.Current(), "step six is terminal")
	})
}

func TestNavigator_PricingStepValidatesConfigurations(t *testing.T) {
	s := validBasicStore(t)
	s.Configs.Add()
	require.NoError(t, s.Configs.Update(0, ConfigurationPatch{Type: str("2BHK"), AreaMin: f64(800)}))
	n := NewNavigator(s)
	require.NoError(t, n.GoTo(StepPricing))

	ok := n.Next()

	assert.False(t, ok)
	assert.Contains(t, s.Errors, "configurations.0.price_min")
}
