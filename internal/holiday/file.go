package holiday

import (
	"encoding/json"
	"fmt"
	"os"

	"holcal/internal/config"
)

// The definitions file stores each holiday as a flat JSON object: the
// "date" / "diff" field alongside the identifier-store entries, e.g.
//
//	{"diff": "P-1D", "0329_1999_11": "5a0e…"}
//
// The custom (un)marshalers below split and re-merge that flat shape.

func (f *Fixed) UnmarshalJSON(data []byte) error {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	f.Date = raw["date"]
	delete(raw, "date")
	f.IDs = Store(raw)
	if f.IDs == nil {
		f.IDs = Store{}
	}
	return nil
}

func (f *Fixed) MarshalJSON() ([]byte, error) {
	out := make(map[string]string, len(f.IDs)+1)
	for k, v := range f.IDs {
		out[k] = v
	}
	out["date"] = f.Date
	return json.Marshal(out)
}

func (mv *Movable) UnmarshalJSON(data []byte) error {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	mv.Diff = raw["diff"]
	delete(raw, "diff")
	mv.IDs = Store(raw)
	if mv.IDs == nil {
		mv.IDs = Store{}
	}
	return nil
}

func (mv *Movable) MarshalJSON() ([]byte, error) {
	out := make(map[string]string, len(mv.IDs)+1)
	for k, v := range mv.IDs {
		out[k] = v
	}
	out["diff"] = mv.Diff
	return json.Marshal(out)
}

// Load reads the definitions file. A missing file is fatal: the compiler
// never starts a run without input.
func Load(path string) (Definitions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var defs Definitions
	if err := json.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("definitions %s: %w", path, err)
	}
	return defs, nil
}

// Save rewrites the definitions file with any newly minted identifiers,
// keys sorted and 4-space indented, so re-runs are idempotent and diffs
// stay minimal. The write is atomic (temp file + rename).
func Save(path string, defs Definitions) error {
	data, err := json.MarshalIndent(defs, "", "    ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return config.WriteFileAtomic(path, data, 0o644)
}
