package dumputil

import (
	json "github.com/goccy/go-json"

	"uddtool/udd"
)

type jsonDocument struct {
	Source   string      `json:"source"`
	Version  string      `json:"version"`
	Warnings []string    `json:"warnings,omitempty"`
	Chunks   []ChunkInfo `json:"chunks"`
}

// DumpJSON returns indented JSON rendition of doc, payloads are base64.
func DumpJSON(doc *udd.Document, name string) ([]byte, error) {
	out := jsonDocument{
		Source:  name,
		Version: doc.Version().String(),
		Chunks:  Describe(doc),
	}
	for _, w := range doc.Warnings() {
		out.Warnings = append(out.Warnings, w.Error())
	}
	return json.MarshalIndent(out, "", "  ")
}
