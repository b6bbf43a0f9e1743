package operator

type OperatorServiceAPI interface {
	GetBySiret(siret int64) (*Operator, error)
	Create(siret int64, input CreateInput) (*Operator, error)
	Patch(siret int64, input PatchInput) (*Operator, error)
	Delete(siret int64) error
	FindByFilters(filters map[string]interface{}) ([]Operator, error)
	ExportByFilters(filters map[string]interface{}) (filename, contentType string, data []byte, err error)
	MaxNumeroBio() (int64, error)
}
