package ff

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"ffscore/util"
)

const APPROX_FUNCTIONS = 16

// Constructor builds an unconfigured feature function of one kind
type Constructor func() FeatureFunction

// Registry is the ordered collection of feature functions of a decoder. It
// is built once at startup and read-only once loaded, so it can be shared
// across decoding workers.
type Registry struct {
	constructors map[string]Constructor
	functions    []FeatureFunction
	names        *util.EnumSet[string]
	kindCount    map[string]int
	total        int
	loaded       bool
}

func NewRegistry() *Registry {
	r := &Registry{
		constructors: make(map[string]Constructor, len(defaultConstructors)),
		names:        util.NewEnumSet[string](APPROX_FUNCTIONS),
		kindCount:    make(map[string]int),
	}
	for kind, c := range defaultConstructors {
		r.constructors[kind] = c
	}
	return r
}

// RegisterKind makes a feature function kind available to Add
func (r *Registry) RegisterKind(kind string, c Constructor) {
	r.constructors[kind] = c
}

func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.constructors))
	for kind := range r.constructors {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// Add constructs, configures and registers a function from a feature line
func (r *Registry) Add(line string) (FeatureFunction, error) {
	parsed, err := ParseLine(line)
	if err != nil {
		return nil, err
	}
	return r.AddLine(parsed)
}

func (r *Registry) AddLine(line *Line) (FeatureFunction, error) {
	construct, exists := r.constructors[line.Kind]
	if !exists {
		return nil, &ConfigError{Function: line.Kind, Reason: "unknown feature function kind"}
	}
	f := construct()
	if err := r.checkAddable(f); err != nil {
		return nil, err
	}
	if err := ApplyLine(f, line); err != nil {
		return nil, err
	}
	if err := r.Register(f); err != nil {
		return nil, err
	}
	return f, nil
}

// Register appends an already configured function. Functions without a name
// are named <Kind><n>, n counting the functions of that kind.
func (r *Registry) Register(f FeatureFunction) error {
	if err := r.checkAddable(f); err != nil {
		return err
	}
	b := f.base()
	defaultName := b.kind + strconv.Itoa(r.kindCount[b.kind])
	if len(b.name) == 0 {
		b.name = defaultName
	}
	if _, isNew := r.names.Add(b.name); !isNew {
		return &InvariantViolation{Function: b.name, Reason: "duplicate feature function name"}
	}
	r.kindCount[b.kind]++
	r.functions = append(r.functions, f)
	util.Logger().Debug("registered feature function", "name", b.name, "kind", b.kind, "components", f.NumScoreComponents())
	return nil
}

func (r *Registry) checkAddable(f FeatureFunction) error {
	if r.loaded {
		return &InvariantViolation{Function: f.Kind(), Reason: "registry is already loaded"}
	}
	if !f.Stateless() {
		return &InvariantViolation{Function: f.Kind(), Reason: "stateful feature functions are not supported"}
	}
	if f.Singleton() && r.kindCount[f.Kind()] > 0 {
		return &InvariantViolation{Function: f.Kind(), Reason: "can only have 1 " + f.Kind()}
	}
	return nil
}

// Load runs the load phase of every function in registration order, then
// assigns contiguous slot ranges and freezes the registry
func (r *Registry) Load(opts *Options) error {
	if r.loaded {
		return &InvariantViolation{Reason: "registry loaded twice"}
	}
	if opts == nil {
		opts = &Options{}
	}
	for _, f := range r.functions {
		if err := f.Load(opts); err != nil {
			return err
		}
	}
	ranges := make([]SlotRange, len(r.functions))
	var offset int
	for i, f := range r.functions {
		n := f.NumScoreComponents()
		if n < 0 {
			return &InvariantViolation{Function: f.Name(), Reason: fmt.Sprintf("negative slot count %d", n)}
		}
		ranges[i] = SlotRange{offset, offset + n}
		offset += n
	}
	if i, err := CheckLayout(ranges, offset); err != nil {
		return &InvariantViolation{Function: r.functions[i].Name(), Reason: err.Error()}
	}
	for i, f := range r.functions {
		f.base().assign(ranges[i])
	}
	r.total = offset
	r.loaded = true
	r.names.Freeze()
	return nil
}

// CheckLayout verifies that ranges are pairwise disjoint and together cover
// exactly [0, total). On failure it returns the index of an offending range.
func CheckLayout(ranges []SlotRange, total int) (int, error) {
	order := make([]int, len(ranges))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return ranges[order[a]].Start < ranges[order[b]].Start
	})
	var next int
	for _, i := range order {
		cur := ranges[i]
		if cur.End < cur.Start {
			return i, fmt.Errorf("inverted slot range %v", cur)
		}
		if cur.Start < next {
			return i, fmt.Errorf("slot range %v overlaps a previous range ending at %d", cur, next)
		}
		if cur.Start > next {
			return i, fmt.Errorf("slots [%d,%d) are not owned by any function", next, cur.Start)
		}
		next = cur.End
	}
	if next != total {
		return len(ranges) - 1, fmt.Errorf("ranges cover %d slots, expected %d", next, total)
	}
	return 0, nil
}

func (r *Registry) Loaded() bool {
	return r.loaded
}

// Functions returns the registered functions in registration order
func (r *Registry) Functions() []FeatureFunction {
	functions := make([]FeatureFunction, len(r.functions))
	copy(functions, r.functions)
	return functions
}

func (r *Registry) Len() int {
	return len(r.functions)
}

func (r *Registry) Lookup(name string) (FeatureFunction, bool) {
	i, exists := r.names.IndexOf(name)
	if !exists {
		return nil, false
	}
	return r.functions[i], true
}

func (r *Registry) Names() []string {
	names := make([]string, len(r.functions))
	for i, f := range r.functions {
		names[i] = f.Name()
	}
	return names
}

// NumScoreComponents is the length of the score vector
func (r *Registry) NumScoreComponents() int {
	if !r.loaded {
		panic("score vector length requested before registry load")
	}
	return r.total
}

func (r *Registry) Ranges() []SlotRange {
	ranges := make([]SlotRange, len(r.functions))
	for i, f := range r.functions {
		ranges[i] = f.Range()
	}
	return ranges
}

// NewScoreBreakdown returns an empty accumulator with this registry's layout
func (r *Registry) NewScoreBreakdown() *ScoreBreakdown {
	return NewScoreBreakdown(r.NumScoreComponents())
}

// Describe writes the slot layout, one function per line
func (r *Registry) Describe(w io.Writer) {
	for _, f := range r.functions {
		if r.loaded {
			fmt.Fprintf(w, "%s\t%s\t%s\n", f.Name(), f.Kind(), f.Range())
		} else {
			fmt.Fprintf(w, "%s\t%s\t%d\n", f.Name(), f.Kind(), f.NumScoreComponents())
		}
	}
}
