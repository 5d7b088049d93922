// Package record defines the flat print-specification record and the
// extractor that builds one from an XML document.
package record

// Field names a record field. The value is the XML element name it is read from.
type Field string

const (
	FieldISBN         Field = "isbn"
	FieldTitle        Field = "title"
	FieldTrimHeight   Field = "trim_height"
	FieldTrimWidth    Field = "trim_width"
	FieldExtent       Field = "extent"
	FieldPaper        Field = "paper"
	FieldColour       Field = "colour"
	FieldQuality      Field = "quality"
	FieldBindingStyle Field = "binding_style"
)

// Fields lists every record field in extraction order.
var Fields = []Field{
	FieldISBN,
	FieldTitle,
	FieldTrimHeight,
	FieldTrimWidth,
	FieldExtent,
	FieldPaper,
	FieldColour,
	FieldQuality,
	FieldBindingStyle,
}

// Record holds the trimmed string fields of one source document.
// An absent element is the empty string.
type Record struct {
	ISBN         string `json:"isbn"`
	Title        string `json:"title"`
	TrimHeight   string `json:"trim_height"`
	TrimWidth    string `json:"trim_width"`
	Extent       string `json:"extent"`
	Paper        string `json:"paper"`
	Colour       string `json:"colour"`
	Quality      string `json:"quality"`
	BindingStyle string `json:"binding_style"`
}

// Get returns the value of f, or "" for an unknown field.
func (r Record) Get(f Field) string {
	switch f {
	case FieldISBN:
		return r.ISBN
	case FieldTitle:
		return r.Title
	case FieldTrimHeight:
		return r.TrimHeight
	case FieldTrimWidth:
		return r.TrimWidth
	case FieldExtent:
		return r.Extent
	case FieldPaper:
		return r.Paper
	case FieldColour:
		return r.Colour
	case FieldQuality:
		return r.Quality
	case FieldBindingStyle:
		return r.BindingStyle
	default:
		return ""
	}
}

// With returns a copy of r with f set to value. Unknown fields are ignored.
func (r Record) With(f Field, value string) Record {
	switch f {
	case FieldISBN:
		r.ISBN = value
	case FieldTitle:
		r.Title = value
	case FieldTrimHeight:
		r.TrimHeight = value
	case FieldTrimWidth:
		r.TrimWidth = value
	case FieldExtent:
		r.Extent = value
	case FieldPaper:
		r.Paper = value
	case FieldColour:
		r.Colour = value
	case FieldQuality:
		r.Quality = value
	case FieldBindingStyle:
		r.BindingStyle = value
	}
	return r
}

// FromMap builds a record from field-name keys such as "trim_width".
func FromMap(values map[string]string) Record {
	var r Record
	for _, f := range Fields {
		r = r.With(f, values[string(f)])
	}
	return r
}
