package export

// JobCategory is one exportable category with its assigned numeric id.
type JobCategory struct {
	CategoryName string
	ID           int
	JobID        string
}

// CategoryFullName uniquely identifies a category across jobs; identical
// category names in different jobs must not collide.
func CategoryFullName(jobID, categoryName string) string {
	return jobID + "__" + categoryName
}

// CategoryIndex holds categories in assignment order with lookup by full name.
type CategoryIndex struct {
	byName map[string]JobCategory
	order  []string
}

func newCategoryIndex() *CategoryIndex {
	return &CategoryIndex{byName: make(map[string]JobCategory)}
}

func (x *CategoryIndex) add(category JobCategory) {
	fullName := CategoryFullName(category.JobID, category.CategoryName)
	if _, exists := x.byName[fullName]; !exists {
		x.order = append(x.order, fullName)
	}
	x.byName[fullName] = category
}

// Get looks up a category by its full name.
func (x *CategoryIndex) Get(fullName string) (JobCategory, bool) {
	category, ok := x.byName[fullName]
	return category, ok
}

// Len returns the number of categories in the index.
func (x *CategoryIndex) Len() int {
	return len(x.order)
}

// Categories returns all categories in id-assignment order.
func (x *CategoryIndex) Categories() []JobCategory {
	result := make([]JobCategory, 0, len(x.order))
	for _, fullName := range x.order {
		result = append(result, x.byName[fullName])
	}
	return result
}

// JobIDs returns the distinct job ids in first-appearance order.
func (x *CategoryIndex) JobIDs() []string {
	seen := make(map[string]bool, len(x.order))
	var result []string
	for _, fullName := range x.order {
		jobID := x.byName[fullName].JobID
		if !seen[jobID] {
			seen[jobID] = true
			result = append(result, jobID)
		}
	}
	return result
}

// MergedCategories assigns one globally incrementing id across all
// qualifying jobs, in job-then-category declaration order. An interface with
// no qualifying job yields an empty index.
func MergedCategories(iface *ProjectInterface) *CategoryIndex {
	index := newCategoryIndex()
	counter := 0
	for _, job := range iface.Jobs {
		if !job.Qualifies() {
			continue
		}
		for _, name := range job.Categories {
			index.add(JobCategory{CategoryName: name, ID: counter, JobID: job.ID})
			counter++
		}
	}
	return index
}

// JobCategories pairs a job with its own category index.
type JobCategories struct {
	JobID      string
	Categories *CategoryIndex
}

// SplitCategories assigns ids restarting at 0 for each qualifying job, in
// interface declaration order.
func SplitCategories(iface *ProjectInterface) []JobCategories {
	var result []JobCategories
	for _, job := range iface.Jobs {
		if !job.Qualifies() {
			continue
		}
		index := newCategoryIndex()
		for i, name := range job.Categories {
			index.add(JobCategory{CategoryName: name, ID: i, JobID: job.ID})
		}
		result = append(result, JobCategories{JobID: job.ID, Categories: index})
	}
	return result
}
