package objects

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"time"

	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/facet/internal/core/ports"
	"go.trai.ch/zerr"
)

// SourceFileRef is a deprecated single-file reference (impl, specs).
type SourceFileRef struct {
	Name string     `json:"name"`
	File domain.Ref `json:"file"`
}

// FileRef is one stored file of a version.
type FileRef struct {
	Name         string     `json:"name"`
	RelativePath string     `json:"relativePath"`
	File         domain.Ref `json:"file"`
}

// Log is the provenance of a version.
type Log struct {
	Message  string `json:"message"`
	Date     string `json:"date"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// SpecsResult is the outcome of one spec file run.
type SpecsResult struct {
	SpecFile string       `json:"specFile"`
	Pass     bool         `json:"pass"`
	Tests    []TestResult `json:"tests,omitempty"`
	Failures []TestResult `json:"failures,omitempty"`
}

// TestResult is one test case of a spec run.
type TestResult struct {
	Title    string `json:"title"`
	Pass     bool   `json:"pass"`
	Err      string `json:"err,omitempty"`
	Duration int64  `json:"duration,omitempty"`
}

// Version is one immutable revision of a component.
//
// TestsFileNames, Dependencies, FlattenedDependencies and PackageDependencies are never nil.
// Files, Dists, CI, SpecsResults and Docs are nil when empty.
type Version struct {
	Impl                  *SourceFileRef
	Specs                 *SourceFileRef
	MainFileName          string
	TestsFileNames        []string
	Files                 []FileRef
	Dists                 []FileRef
	Compiler              *domain.ComponentID
	Tester                *domain.ComponentID
	Log                   Log
	CI                    map[string]any
	SpecsResults          []SpecsResult
	Docs                  []domain.Doc
	Dependencies          domain.ComponentIDs
	FlattenedDependencies domain.ComponentIDs
	PackageDependencies   map[string]string
}

// FileInput is a file to snapshot.
type FileInput struct {
	Name         string
	RelativePath string
	Contents     []byte
}

// VersionInput carries everything FromComponent packages into a version.
type VersionInput struct {
	Component     *domain.Component
	Impl          *FileInput
	Specs         *FileInput
	Files         []FileInput
	Dists         []FileInput
	FlattenedDeps domain.ComponentIDs
	Message       string
	SpecsResults  []SpecsResult
	Username      string
	Email         string
	// Now stamps the log date; zero means time.Now().
	Now time.Time
}

// FromComponent packages a component and its file contents into a new version.
// File contents are hashed into refs; dependency ids are stored as given.
func FromComponent(in VersionInput) *Version {
	c := in.Component
	if c == nil {
		c = &domain.Component{}
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	v := &Version{
		Impl:                  sourceFileRef(in.Impl),
		Specs:                 sourceFileRef(in.Specs),
		MainFileName:          c.MainFile,
		TestsFileNames:        nonNilStrings(c.TestFiles),
		Files:                 fileRefs(in.Files),
		Dists:                 fileRefs(in.Dists),
		Compiler:              cloneID(c.Compiler),
		Tester:                cloneID(c.Tester),
		SpecsResults:          emptyToNil(in.SpecsResults),
		Docs:                  emptyToNil(slices.Clone(c.Docs)),
		Dependencies:          directDependencies(c),
		FlattenedDependencies: nonNilIDs(slices.Clone(in.FlattenedDeps)),
		PackageDependencies:   nonNilMap(c.PackageDependencies),
		Log: Log{
			Message:  in.Message,
			Date:     strconv.FormatInt(now.UnixMilli(), 10),
			Username: in.Username,
			Email:    in.Email,
		},
	}
	return v
}

func sourceFileRef(in *FileInput) *SourceFileRef {
	if in == nil {
		return nil
	}
	return &SourceFileRef{Name: in.Name, File: domain.HashContent(in.Contents)}
}

func fileRefs(in []FileInput) []FileRef {
	if len(in) == 0 {
		return nil
	}
	out := make([]FileRef, len(in))
	for i, f := range in {
		out[i] = FileRef{Name: f.Name, RelativePath: f.RelativePath, File: domain.HashContent(f.Contents)}
	}
	return out
}

// directDependencies is the ordered set of runtime then dev dependency ids.
func directDependencies(c *domain.Component) domain.ComponentIDs {
	ids := make(domain.ComponentIDs, 0, len(c.Dependencies)+len(c.DevDependencies))
	for _, deps := range [][]domain.LegacyDependency{c.Dependencies, c.DevDependencies} {
		for _, d := range deps {
			if !ids.Has(d.ID, false) {
				ids = append(ids, d.ID)
			}
		}
	}
	return ids
}

// versionIdentity enumerates the identity-relevant fields of a version.
// Empty strings, nil pointers, empty slices and empty maps are omitted;
// a non-empty string such as "0" is always kept.
type versionIdentity struct {
	Impl                *SourceFileRef    `json:"impl,omitempty"`
	Specs               *SourceFileRef    `json:"specs,omitempty"`
	MainFileName        string            `json:"mainFileName,omitempty"`
	TestsFileNames      []string          `json:"testsFileNames,omitempty"`
	Files               []FileRef         `json:"files,omitempty"`
	Compiler            string            `json:"compiler,omitempty"`
	Tester              string            `json:"tester,omitempty"`
	Log                 logIdentity       `json:"log"`
	Dependencies        []string          `json:"dependencies,omitempty"`
	PackageDependencies map[string]string `json:"packageDependencies,omitempty"`
}

type logIdentity struct {
	Message  string `json:"message,omitempty"`
	Date     string `json:"date,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// ID returns the canonical identity string of the version.
// FlattenedDependencies, CI, SpecsResults, Docs and Dists do not take part.
func (v *Version) ID() string {
	ident := versionIdentity{
		Impl:                v.Impl,
		Specs:               v.Specs,
		MainFileName:        v.MainFileName,
		TestsFileNames:      v.TestsFileNames,
		Files:               v.Files,
		Compiler:            idString(v.Compiler),
		Tester:              idString(v.Tester),
		Log:                 logIdentity(v.Log),
		Dependencies:        v.Dependencies.Strings(),
		PackageDependencies: v.PackageDependencies,
	}
	// Marshal cannot fail on these field types.
	data, _ := json.Marshal(ident)
	return string(data)
}

// versionRecord is the persisted wire form of a version.
type versionRecord struct {
	Impl                  *SourceFileRef    `json:"impl,omitempty"`
	Specs                 *SourceFileRef    `json:"specs,omitempty"`
	Files                 []FileRef         `json:"files,omitempty"`
	MainFileName          string            `json:"mainFileName"`
	TestsFileNames        []string          `json:"testsFileNames"`
	Dists                 []FileRef         `json:"dists,omitempty"`
	Compiler              string            `json:"compiler,omitempty"`
	Tester                string            `json:"tester,omitempty"`
	Log                   *Log              `json:"log"`
	CI                    map[string]any    `json:"ci,omitempty"`
	SpecsResults          []SpecsResult     `json:"specsResults,omitempty"`
	Docs                  []domain.Doc      `json:"docs,omitempty"`
	Dependencies          []string          `json:"dependencies"`
	FlattenedDependencies []string          `json:"flattenedDependencies"`
	PackageDependencies   map[string]string `json:"packageDependencies"`
}

// ToObject returns the full canonical record.
func (v *Version) ToObject() any {
	logCopy := v.Log
	return versionRecord{
		Impl:                  v.Impl,
		Specs:                 v.Specs,
		Files:                 v.Files,
		MainFileName:          v.MainFileName,
		TestsFileNames:        nonNilStrings(v.TestsFileNames),
		Dists:                 v.Dists,
		Compiler:              idString(v.Compiler),
		Tester:                idString(v.Tester),
		Log:                   &logCopy,
		CI:                    v.CI,
		SpecsResults:          v.SpecsResults,
		Docs:                  v.Docs,
		Dependencies:          v.Dependencies.Strings(),
		FlattenedDependencies: v.FlattenedDependencies.Strings(),
		PackageDependencies:   nonNilMap(v.PackageDependencies),
	}
}

// ToBuffer serializes the canonical record as JSON.
func (v *Version) ToBuffer() ([]byte, error) {
	data, err := json.Marshal(v.ToObject())
	if err != nil {
		return nil, zerr.Wrap(err, "failed to marshal version")
	}
	return data, nil
}

// Kind returns KindVersion.
func (v *Version) Kind() Kind { return KindVersion }

// ParseVersion reconstructs a version from its serialized record.
func ParseVersion(data []byte) (*Version, error) {
	var rec versionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedVersion, err)
	}
	if rec.Log == nil {
		return nil, zerr.Wrap(domain.ErrMalformedVersion, "missing log")
	}

	v := &Version{
		Impl:           rec.Impl,
		Specs:          rec.Specs,
		MainFileName:   rec.MainFileName,
		TestsFileNames: nonNilStrings(rec.TestsFileNames),
		Files:          emptyToNil(rec.Files),
		Dists:          emptyToNil(rec.Dists),
		Log:            *rec.Log,
		SpecsResults:   emptyToNil(rec.SpecsResults),
		Docs:           emptyToNil(rec.Docs),
	}
	if len(rec.CI) > 0 {
		v.CI = rec.CI
	}
	v.PackageDependencies = nonNilMap(rec.PackageDependencies)

	if err := v.validateRefs(); err != nil {
		return nil, err
	}

	var err error
	if v.Compiler, err = parseOptionalID(rec.Compiler); err != nil {
		return nil, zerr.With(err, "field", "compiler")
	}
	if v.Tester, err = parseOptionalID(rec.Tester); err != nil {
		return nil, zerr.With(err, "field", "tester")
	}
	if v.Dependencies, err = parseIDs(rec.Dependencies); err != nil {
		return nil, zerr.With(err, "field", "dependencies")
	}
	if v.FlattenedDependencies, err = parseIDs(rec.FlattenedDependencies); err != nil {
		return nil, zerr.With(err, "field", "flattenedDependencies")
	}

	return v, nil
}

func (v *Version) validateRefs() error {
	for _, ref := range v.Refs() {
		if _, err := domain.ParseRef(ref.String()); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrMalformedVersion, err)
		}
	}
	return nil
}

func parseOptionalID(raw string) (*domain.ComponentID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := domain.ParseComponentID(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedVersion, err)
	}
	return &id, nil
}

func parseIDs(raw []string) (domain.ComponentIDs, error) {
	ids, err := domain.ParseComponentIDs(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedVersion, err)
	}
	return ids, nil
}

// Refs returns impl, specs, dists and files refs in that order, skipping empty refs.
func (v *Version) Refs() []domain.Ref {
	refs := make([]domain.Ref, 0, 2+len(v.Dists)+len(v.Files))
	if v.Impl != nil && !v.Impl.File.IsZero() {
		refs = append(refs, v.Impl.File)
	}
	if v.Specs != nil && !v.Specs.File.IsZero() {
		refs = append(refs, v.Specs.File)
	}
	for _, f := range v.Dists {
		if !f.File.IsZero() {
			refs = append(refs, f.File)
		}
	}
	for _, f := range v.Files {
		if !f.File.IsZero() {
			refs = append(refs, f.File)
		}
	}
	return refs
}

// DependencyIDs returns the flattened dependencies plus, with withDev, the compiler and tester.
func (v *Version) DependencyIDs(withDev bool) domain.ComponentIDs {
	ids := slices.Clone(v.FlattenedDependencies)
	if withDev {
		for _, id := range []*domain.ComponentID{v.Compiler, v.Tester} {
			if id != nil {
				ids = append(ids, *id)
			}
		}
	}
	return nonNilIDs(ids)
}

// CollectDependencies imports every dependency version through scope.
// Any import failure fails the whole call.
func (v *Version) CollectDependencies(
	ctx context.Context,
	scope ports.Scope,
	withDev bool,
) ([]domain.ComponentVersion, error) {
	return scope.ImportManyOnes(ctx, v.DependencyIDs(withDev), true)
}

// SetSpecsResults replaces the spec results. The version id does not change.
func (v *Version) SetSpecsResults(results []SpecsResult) {
	v.SpecsResults = emptyToNil(results)
}

// SetCIProps replaces the CI properties. The version id does not change.
func (v *Version) SetCIProps(props map[string]any) {
	if len(props) == 0 {
		v.CI = nil
		return
	}
	v.CI = normalizeJSON(props)
}

// normalizeJSON returns props in the shape json.Unmarshal produces, so that numbers are float64.
// Values that cannot be marshalled are kept as a shallow copy.
func normalizeJSON(props map[string]any) map[string]any {
	data, err := json.Marshal(props)
	if err != nil {
		return maps.Clone(props)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return maps.Clone(props)
	}
	return out
}

func idString(id *domain.ComponentID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

func cloneID(id *domain.ComponentID) *domain.ComponentID {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}

func nonNilIDs(ids domain.ComponentIDs) domain.ComponentIDs {
	if ids == nil {
		return domain.ComponentIDs{}
	}
	return ids
}

func nonNilMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return maps.Clone(m)
}

func emptyToNil[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return s
}
