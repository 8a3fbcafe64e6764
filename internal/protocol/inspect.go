package protocol

import (
	"fmt"
	"strings"

	"github.com/clbanning/mxj"
)

// Fields flattens any SADP document into element path -> text, without
// applying the schema. Paths are relative to the root element, so a reply's
// serial number is keyed "DeviceSN". Nested elements use dotted paths.
//
// This is meant for inspecting captures from unfamiliar firmware; use Decode
// for anything that drives behaviour.
func Fields(data []byte) (map[string]string, error) {
	mv, err := mxj.NewMapXml(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	out := make(map[string]string)
	for _, leaf := range mv.LeafNodes() {
		path := leaf.Path
		if i := strings.IndexByte(path, '.'); i >= 0 {
			path = path[i+1:]
		}
		if leaf.Value == nil {
			out[path] = ""
			continue
		}
		out[path] = fmt.Sprint(leaf.Value)
	}

	return out, nil
}

// Root returns the root element name of a SADP document.
func Root(data []byte) (string, error) {
	mv, err := mxj.NewMapXml(data)
	if err != nil {
		return "", fmt.Errorf("failed to parse document: %w", err)
	}
	for k := range mv {
		return k, nil
	}
	return "", fmt.Errorf("document has no root element")
}
