package catalog

// Organize groups signs by category and merges them with category
// metadata into Courses. One Course is emitted per Category, in category
// order; a category with no matching signs still appears with zero
// chapters. Signs referencing an unknown category belong to no course
// but stay in the flat catalog.
func Organize(signs []Sign, categories []Category) []Course {
	byCategory := make(map[string][]Sign)
	for _, sign := range signs {
		byCategory[sign.Category] = append(byCategory[sign.Category], sign)
	}

	courses := make([]Course, 0, len(categories))
	for _, cat := range categories {
		members := byCategory[cat.ID]
		if members == nil {
			members = []Sign{}
		}
		courses = append(courses, Course{
			ID:              cat.ID,
			Title:           cat.Title,
			Description:     cat.Description,
			Icon:            cat.Icon,
			BackgroundColor: cat.BackgroundColor,
			TotalChapters:   len(members),
			Signs:           members,
		})
	}
	return courses
}
