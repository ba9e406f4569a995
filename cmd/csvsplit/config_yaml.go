package main

import (
	yaml "gopkg.in/yaml.v3"
)

func init() {
	decoders[".yaml"] = func(b []byte, v any) error { return yaml.Unmarshal(b, v) }
	decoders[".yml"] = decoders[".yaml"]
}
