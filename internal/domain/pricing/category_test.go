package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategories_FixedOrder(t *testing.T) {
	categories := Categories()
	require.Len(t, categories, 9)

	expected := []Category{
		CategoryGymPass,
		CategoryGymSingleVisit,
		CategoryTrainingPass,
		CategoryTrainingSingle,
		CategoryProduct,
		CategoryBirthday,
		CategoryEvents,
		CategoryCourse,
		CategoryOther,
	}
	for i, info := range categories {
		assert.Equal(t, expected[i], info.Value)
		assert.NotEmpty(t, info.Label)
	}
}

func TestIsValidCategory(t *testing.T) {
	for _, info := range Categories() {
		assert.True(t, IsValidCategory(info.Value))
	}

	assert.False(t, IsValidCategory("spa"))
	assert.False(t, IsValidCategory(""))
	assert.False(t, IsValidCategory("GYM_PASS"), "category values are lowercase")
}

func TestCategoryLabel(t *testing.T) {
	assert.Equal(t, "Карта за фитнес", CategoryLabel(CategoryGymPass))
	assert.Empty(t, CategoryLabel("spa"))
}
