package settings

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ModelType identifies one of the supported Mistral models.
type ModelType int

// ModelUnknown marks a stored model name that is not in the table.
const ModelUnknown ModelType = -1

const (
	ModelUnset ModelType = iota
	ModelMistralNemo
	ModelMistralSmall
	ModelCodestralMamba
)

// DefaultModel is used when no model is configured.
const DefaultModel = ModelMistralNemo

// UnknownWireName is sent for model values outside the table.
const UnknownWireName = "error"

type modelInfo struct {
	name    string
	wire    string
	aliases []string
}

var modelTable = map[ModelType]modelInfo{
	ModelMistralNemo:    {name: "MistralNemo", wire: "open-mistral-nemo", aliases: []string{"nemo", "mistral-nemo"}},
	ModelMistralSmall:   {name: "MistralSmall", wire: "mistral-small-latest", aliases: []string{"small", "mistral-small"}},
	ModelCodestralMamba: {name: "CodestralMamba", wire: "open-codestral-mamba", aliases: []string{"codestral", "codestral-mamba"}},
}

// Models returns the declared models in menu order.
func Models() []ModelType {
	return []ModelType{ModelMistralNemo, ModelMistralSmall, ModelCodestralMamba}
}

// WireName returns the model identifier sent in the request body.
func (m ModelType) WireName() string {
	if info, ok := modelTable[m]; ok {
		return info.wire
	}
	return UnknownWireName
}

// Valid reports whether m is a declared model.
func (m ModelType) Valid() bool {
	_, ok := modelTable[m]
	return ok
}

func (m ModelType) String() string {
	if info, ok := modelTable[m]; ok {
		return info.name
	}
	switch m {
	case ModelUnset:
		return "unset"
	case ModelUnknown:
		return "unknown"
	}
	return fmt.Sprintf("ModelType(%d)", int(m))
}

// ParseModel accepts the enum name, the wire name or a short alias.
func ParseModel(s string) (ModelType, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, m := range Models() {
		info := modelTable[m]
		if v == strings.ToLower(info.name) || v == info.wire {
			return m, nil
		}
		for _, a := range info.aliases {
			if v == a {
				return m, nil
			}
		}
	}
	return ModelUnset, fmt.Errorf("unknown model %q (expected one of %s)", s, strings.Join(ModelNames(), ", "))
}

// ModelNames lists the enum names of the declared models.
func ModelNames() []string {
	names := make([]string, 0, len(modelTable))
	for _, m := range Models() {
		names = append(names, modelTable[m].name)
	}
	return names
}

func (m ModelType) MarshalYAML() (any, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("cannot encode %s", m)
	}
	return m.String(), nil
}

func (m *ModelType) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	if strings.TrimSpace(s) == "" {
		*m = ModelUnset
		return nil
	}
	// an undeclared name keeps the rest of the record readable
	parsed, err := ParseModel(s)
	if err != nil {
		parsed = ModelUnknown
	}
	*m = parsed
	return nil
}
