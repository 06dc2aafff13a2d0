package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	cgerrors "github.com/matzehuels/citegraph/pkg/errors"
	cgio "github.com/matzehuels/citegraph/pkg/io"
	"github.com/matzehuels/citegraph/pkg/service"
)

// loadGraph reads a graph file into svc. Canonical documents (with a
// "vertices" key) replace the current graph; visualization payloads (with
// "nodes") go through the tolerant importer and are merged when merge is
// set.
func loadGraph(svc *service.Service, path string, merge bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return cgerrors.Wrap(cgerrors.ErrCodeInvalidFormat, err, "%s is not a JSON object", path)
	}

	switch {
	case keys["vertices"] != nil:
		g, err := cgio.ReadJSON(bytes.NewReader(data))
		if err != nil {
			return cgerrors.Wrap(cgerrors.ErrCodeInvalidFormat, err, "decode %s", path)
		}
		svc.Store().Integrate(g, merge)
		return nil
	case keys["nodes"] != nil:
		doc, err := cgio.ReadVisJS(bytes.NewReader(data))
		if err != nil {
			return cgerrors.Wrap(cgerrors.ErrCodeInvalidFormat, err, "decode %s", path)
		}
		doc.Merge = merge
		_, err = svc.Import(doc)
		return err
	}
	return cgerrors.New(cgerrors.ErrCodeInvalidFormat, "%s has neither \"vertices\" nor \"nodes\"", path)
}
