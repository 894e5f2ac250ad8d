package errors

import "fmt"

// Payload is the typed detail attached to an Error. Each Code selects one
// concrete payload type; the set of implementations is closed.
type Payload interface {
	fmt.Stringer
	payload()
}

// None is the payload of codes that need nothing beyond the offset.
type None struct{}

// Byte carries a raw byte value such as a section id, tag or flag.
type Byte uint8

// U32 carries a 32-bit value such as a declared count or length.
type U32 uint32

// U64 carries a 64-bit value that did not fit the platform size.
type U64 uint64

// Counts pairs a declared count with the number actually resolved.
type Counts struct {
	Declared uint32
	Resolved uint32
}

// Sections names the missing prerequisite section and the section that
// required it.
type Sections struct {
	Missing  uint8
	Required uint8
}

// ValTypes pairs the expected value type with the one found.
type ValTypes struct {
	Expected uint8
	Actual   uint8
}

// End is the end offset of the range that ran out of space.
type End struct {
	Offset int
}

// Bound is an index and the exclusive upper bound it violated.
type Bound struct {
	Index uint32
	Max   uint32
}

// ExportBound is a Bound for a particular export kind.
type ExportBound struct {
	Index uint32
	Max   uint32
	Kind  uint8
}

// ImportDefine counts imported and defined entities of one kind.
type ImportDefine struct {
	Kind     uint8
	Imported uint32
	Defined  uint32
}

// MinMax carries the bounds of a limits pair whose maximum is below its
// minimum.
type MinMax struct {
	Min uint32
	Max uint32
}

// Limit reports a configured parser limit that was exceeded.
type Limit struct {
	Name  string
	Value uint64
	Max   uint64
}

// Duplicate reports a repeated name within one extern kind.
type Duplicate struct {
	Module string
	Name   string
	Kind   uint8
}

// GlobalRef reports a global.get whose index is not an imported global.
type GlobalRef struct {
	Index    uint32
	Imported uint32
}

// Range is a begin/end pair that does not describe a valid window.
type Range struct {
	Begin int
	End   int
}

func (None) payload()         {}
func (Byte) payload()         {}
func (U32) payload()          {}
func (U64) payload()          {}
func (Counts) payload()       {}
func (Sections) payload()     {}
func (ValTypes) payload()     {}
func (End) payload()          {}
func (Bound) payload()        {}
func (ExportBound) payload()  {}
func (ImportDefine) payload() {}
func (MinMax) payload()       {}
func (Limit) payload()        {}
func (Duplicate) payload()    {}
func (GlobalRef) payload()    {}
func (Range) payload()        {}

func (None) String() string    { return "" }
func (p Byte) String() string  { return fmt.Sprintf("0x%02x", uint8(p)) }
func (p U32) String() string   { return fmt.Sprintf("%d", uint32(p)) }
func (p U64) String() string   { return fmt.Sprintf("%d", uint64(p)) }
func (p End) String() string   { return fmt.Sprintf("end=%d", p.Offset) }
func (p Range) String() string { return fmt.Sprintf("begin=%d end=%d", p.Begin, p.End) }
func (p Limit) String() string { return fmt.Sprintf("%s=%d max=%d", p.Name, p.Value, p.Max) }
func (p Counts) String() string {
	return fmt.Sprintf("declared=%d resolved=%d", p.Declared, p.Resolved)
}

func (p Sections) String() string {
	return fmt.Sprintf("missing=%d required-by=%d", p.Missing, p.Required)
}

func (p ValTypes) String() string {
	return fmt.Sprintf("expected=0x%02x actual=0x%02x", p.Expected, p.Actual)
}

func (p Bound) String() string {
	return fmt.Sprintf("index=%d max=%d", p.Index, p.Max)
}

func (p ExportBound) String() string {
	return fmt.Sprintf("kind=%d index=%d max=%d", p.Kind, p.Index, p.Max)
}

func (p ImportDefine) String() string {
	return fmt.Sprintf("kind=%d imported=%d defined=%d", p.Kind, p.Imported, p.Defined)
}

func (p Duplicate) String() string {
	if p.Module != "" {
		return fmt.Sprintf("kind=%d name=%q.%q", p.Kind, p.Module, p.Name)
	}
	return fmt.Sprintf("kind=%d name=%q", p.Kind, p.Name)
}

func (p MinMax) String() string {
	return fmt.Sprintf("min=%d max=%d", p.Min, p.Max)
}

func (p GlobalRef) String() string {
	return fmt.Sprintf("index=%d imported=%d", p.Index, p.Imported)
}
