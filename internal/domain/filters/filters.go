package filters

const DefaultPageSize = 10

type Filters struct {
	Page     int
	PageSize int
}

func New(page int) Filters {
	if page < 1 {
		page = 1
	}
	return Filters{Page: page, PageSize: DefaultPageSize}
}

func (f Filters) Limit() int {
	return f.PageSize
}

func (f Filters) Offset() int {
	return (f.Page - 1) * f.PageSize
}

type Metadata struct {
	CurrentPage  int `json:"current_page,omitempty"`
	PageSize     int `json:"page_size,omitempty"`
	FirstPage    int `json:"first_page,omitempty"`
	LastPage     int `json:"last_page,omitempty"`
	TotalRecords int `json:"total_records"`
}

func CalculateMetadata(totalRecords int, f Filters) Metadata {
	if totalRecords == 0 {
		return Metadata{}
	}
	return Metadata{
		CurrentPage:  f.Page,
		PageSize:     f.PageSize,
		FirstPage:    1,
		LastPage:     (totalRecords + f.PageSize - 1) / f.PageSize,
		TotalRecords: totalRecords,
	}
}

// TitleFilter narrows a titles listing. Zero values disable a criterion.
type TitleFilter struct {
	Name       string
	Categories []string
	Genres     []string
	Year       int32
}
