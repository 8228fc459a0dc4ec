package configuration

import (
	"fmt"

	v1alpha1 "github.com/bibiserv/bibigrid/pkg/apis/cluster/v1alpha1"
	mapstructure "github.com/go-viper/mapstructure/v2"
)

// Decode converts a raw entry into its typed form.
func Decode(entry Entry) (v1alpha1.Configuration, error) {
	var cfg v1alpha1.Configuration

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return v1alpha1.Configuration{}, fmt.Errorf("failed to create decoder: %w", err)
	}

	err = decoder.Decode(entry)
	if err != nil {
		return v1alpha1.Configuration{}, fmt.Errorf("failed to decode configuration: %w", err)
	}

	return cfg, nil
}

// DecodeAll decodes every entry, keeping their order.
func DecodeAll(entries []Entry) ([]v1alpha1.Configuration, error) {
	configs := make([]v1alpha1.Configuration, 0, len(entries))

	for idx, entry := range entries {
		cfg, err := Decode(entry)
		if err != nil {
			return nil, fmt.Errorf("configuration %d: %w", idx, err)
		}

		configs = append(configs, cfg)
	}

	return configs, nil
}
