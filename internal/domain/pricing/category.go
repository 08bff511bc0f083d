package pricing

// Category identifies a pricing category.
type Category string

const (
	CategoryGymPass        Category = "gym_pass"
	CategoryGymSingleVisit Category = "gym_single_visit"
	CategoryTrainingPass   Category = "training_pass"
	CategoryTrainingSingle Category = "training_single"
	CategoryProduct        Category = "product"
	CategoryBirthday       Category = "birthday"
	CategoryEvents         Category = "events"
	CategoryCourse         Category = "course"
	CategoryOther          Category = "other"
)

// CategoryInfo pairs a category value with its localized display label.
type CategoryInfo struct {
	Value Category `json:"value"`
	Label string   `json:"label"`
}

// Categories returns the fixed, ordered list of pricing categories.
func Categories() []CategoryInfo {
	return []CategoryInfo{
		{Value: CategoryGymPass, Label: "Карта за фитнес"},
		{Value: CategoryGymSingleVisit, Label: "Единично посещение фитнес"},
		{Value: CategoryTrainingPass, Label: "Карта за тренировки"},
		{Value: CategoryTrainingSingle, Label: "Единична тренировка"},
		{Value: CategoryProduct, Label: "Продукт"},
		{Value: CategoryBirthday, Label: "Рожден ден"},
		{Value: CategoryEvents, Label: "Събития"},
		{Value: CategoryCourse, Label: "Курс"},
		{Value: CategoryOther, Label: "Друго"},
	}
}

// IsValidCategory reports whether c is one of the enumerated categories.
func IsValidCategory(c Category) bool {
	for _, info := range Categories() {
		if info.Value == c {
			return true
		}
	}
	return false
}

// CategoryLabel returns the display label for c, or empty if unknown.
func CategoryLabel(c Category) string {
	for _, info := range Categories() {
		if info.Value == c {
			return info.Label
		}
	}
	return ""
}
