package schema

// Service is a group of operations exposed by one service type.
type Service struct {
	TypeName TypeName `json:"typeName"`

	// Groups restricts the service to the named client groups.
	// Nil means the service is visible to every group.
	Groups []string `json:"groups,omitempty"`

	Doc        *Doc         `json:"doc,omitempty"`
	Operations []*Operation `json:"operations"`
}

// AddOperation appends an operation.
func (s *Service) AddOperation(op *Operation) {
	s.Operations = append(s.Operations, op)
}

// FindOperation looks up an operation by name. Returns nil if not found.
func (s *Service) FindOperation(name string) *Operation {
	for _, op := range s.Operations {
		if op.Name == name {
			return op
		}
	}
	return nil
}

// Operation is a single client-callable function of a service.
type Operation struct {
	Name string `json:"name"`

	// Groups is a subset of the declaring service's groups when those are set.
	Groups []string `json:"groups,omitempty"`

	Doc *Doc `json:"doc,omitempty"`

	// Parameters are the client-visible parameters in declaration order.
	Parameters []*Parameter `json:"parameters,omitempty"`

	// IgnoredParameters are parameters excluded from the client signature.
	IgnoredParameters []*Parameter `json:"ignoredParameters,omitempty"`

	// ReturnType is nil when the operation returns no value.
	ReturnType *TypeRef `json:"returnType,omitempty"`

	// ExceptionTypeNames are the leaf client exception codes the operation may raise.
	ExceptionTypeNames []TypeName `json:"exceptionTypeNames,omitempty"`
}

// AddParameter appends a client-visible parameter.
func (o *Operation) AddParameter(p *Parameter) {
	o.Parameters = append(o.Parameters, p)
}

// AddIgnoredParameter appends an ignored parameter.
func (o *Operation) AddIgnoredParameter(p *Parameter) {
	o.IgnoredParameters = append(o.IgnoredParameters, p)
}

// Parameter is an operation parameter.
type Parameter struct {
	Name string   `json:"name"`
	Type *TypeRef `json:"type"`

	// OriginalIndex is the position in the declared parameter list.
	OriginalIndex int `json:"originalIndex"`

	DefaultValueSpecified bool `json:"defaultValueSpecified,omitempty"`
}
