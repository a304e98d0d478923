package corpus

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"

	"github.com/abhisek/quizsupply/internal/question"
	"github.com/abhisek/quizsupply/internal/validation"
)

const (
	// FormatVersion is the seed file format written by this version.
	FormatVersion = "v1.1.0"

	// minFormatVersion is the oldest format still accepted. Bare JSON arrays
	// predate the envelope and are read as this version.
	minFormatVersion = "v1.0.0"
)

// ErrUnsupportedFormat is returned for seed files whose formatVersion cannot
// be read by this version.
var ErrUnsupportedFormat = errors.New("unsupported seed format version")

// seedFileRe matches the conventional "<grade>_<difficulty>_<subject>.json"
// file names. Those parts fill in fields a record leaves out.
var seedFileRe = regexp.MustCompile(`^(\d{1,2})_(easy|medium|hard)_([a-z_\-]+)\.json$`)

// idNamespace scopes IDs derived for records that have none.
var idNamespace = uuid.MustParse("b0a8f1de-3c1b-4c64-8f5e-2d0c4a7e9b31")

// Skip explains why one record in a seed file was not loaded.
type Skip struct {
	File   string
	Index  int
	Reason string
}

// LoadResult holds the records read from one or more seed files.
type LoadResult struct {
	Records []question.Record
	Skipped []Skip
	Files   int
}

func (r *LoadResult) merge(o *LoadResult) {
	r.Records = append(r.Records, o.Records...)
	r.Skipped = append(r.Skipped, o.Skipped...)
	r.Files += o.Files
}

// Loader reads seed files.
type Loader struct {
	// Validator, when set, drops records the content validator rejects.
	Validator *validation.ContentValidator
}

// DefaultLoader validates records with the default validator chain.
func DefaultLoader() *Loader {
	return &Loader{Validator: validation.Default()}
}

// LoadFile reads one seed file with DefaultLoader.
func LoadFile(path string) (*LoadResult, error) {
	return DefaultLoader().LoadFile(path)
}

// LoadDir reads every seed file in dir with DefaultLoader.
func LoadDir(dir string) (*LoadResult, error) {
	return DefaultLoader().LoadDir(dir)
}

// LoadDir reads every *.json file in dir, in name order. manifest.json is
// ignored.
func (l *Loader) LoadDir(dir string) (*LoadResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read seed dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" || e.Name() == "manifest.json" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	res := &LoadResult{}
	for _, n := range names {
		r, err := l.LoadFile(filepath.Join(dir, n))
		if err != nil {
			return nil, err
		}
		res.merge(r)
	}
	return res, nil
}

// LoadFile reads one seed file.
func (l *Loader) LoadFile(path string) (*LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return l.Load(f, filepath.Base(path))
}

// Load reads seed data from r. name is used for file-name defaults and in
// skip reports.
func (l *Loader) Load(r io.Reader, name string) (*LoadResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}

	var items []any
	switch v := doc.(type) {
	case []any:
		items = v
	case map[string]any:
		if err := validateValue("seed-document", documentSchema, v); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		version, _ := v["formatVersion"].(string)
		if err := checkVersion(version); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		items, _ = v["questions"].([]any)
	default:
		return nil, fmt.Errorf("%s: seed file must be a JSON object or array", name)
	}

	defaults := defaultsFromName(name)
	res := &LoadResult{Files: 1}
	for i, item := range items {
		rec, reason := l.decode(item, defaults, name, i)
		if reason != "" {
			res.Skipped = append(res.Skipped, Skip{File: name, Index: i, Reason: reason})
			continue
		}
		res.Records = append(res.Records, *rec)
	}
	return res, nil
}

func checkVersion(v string) error {
	if !semver.IsValid(v) {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, v)
	}
	if semver.Major(v) != semver.Major(FormatVersion) || semver.Compare(v, minFormatVersion) < 0 {
		return fmt.Errorf("%w: %s (supported %s to %s.x)", ErrUnsupportedFormat, v, minFormatVersion, semver.Major(FormatVersion))
	}
	return nil
}

// seedRecord accepts the legacy "_id" key next to "id".
type seedRecord struct {
	question.Record
	LegacyID string `json:"_id"`
}

func (l *Loader) decode(item any, defaults question.Record, file string, index int) (*question.Record, string) {
	if err := validateValue("seed-record", recordSchema, item); err != nil {
		return nil, "schema: " + firstLine(err.Error())
	}
	raw, err := json.Marshal(item)
	if err != nil {
		return nil, err.Error()
	}
	var sr seedRecord
	if err := json.Unmarshal(raw, &sr); err != nil {
		return nil, err.Error()
	}

	rec := sr.Record
	if rec.ID == "" {
		rec.ID = sr.LegacyID
	}
	if rec.ID == "" {
		rec.ID = uuid.NewSHA1(idNamespace, []byte(file+":"+strconv.Itoa(index)+":"+rec.Content)).String()
	}
	if rec.Type == "" || strings.EqualFold(string(rec.Type), string(question.TypeMultipleChoice)) {
		rec.Type = question.TypeMultipleChoice
	}
	if rec.Subject == "" {
		rec.Subject = defaults.Subject
	}
	if rec.Grade == 0 {
		rec.Grade = defaults.Grade
	}
	if rec.Difficulty == "" {
		rec.Difficulty = defaults.Difficulty
	}
	rec.Provenance = question.Provenance{Source: question.SourceCorpus}

	switch {
	case !rec.Subject.Valid():
		return nil, "missing subject"
	case !rec.Grade.Valid():
		return nil, "missing or invalid grade"
	case !rec.Difficulty.Valid():
		return nil, "missing difficulty"
	}
	if l.Validator != nil {
		if verr := l.Validator.Validate(&rec); verr != nil {
			return nil, verr.Error()
		}
	}
	return &rec, ""
}

// defaultsFromName derives grade, difficulty and subject from a seed file
// name such as "9_hard_math.json". Unrecognized names give no defaults.
func defaultsFromName(name string) question.Record {
	m := seedFileRe.FindStringSubmatch(strings.ToLower(name))
	if m == nil {
		return question.Record{}
	}
	var d question.Record
	if g, err := question.ParseGrade(m[1]); err == nil {
		d.Grade = g
	}
	if diff, err := question.ParseDifficulty(m[2]); err == nil {
		d.Difficulty = diff
	}
	if s, err := question.ParseSubject(m[3]); err == nil {
		d.Subject = s
	}
	return d
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// Document is the envelope written by Write.
type Document struct {
	FormatVersion string            `json:"formatVersion"`
	Questions     []question.Record `json:"questions"`
}

// Write encodes records as a seed document.
func Write(w io.Writer, records []question.Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Document{FormatVersion: FormatVersion, Questions: records})
}
