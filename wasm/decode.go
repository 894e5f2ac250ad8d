package wasm

import (
	stderrors "errors"
	"math"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-binfmt/errors"
	"github.com/wippyai/wasm-binfmt/wasm/internal/binary"
)

// Decode parses and structurally validates a WebAssembly 1.0 module using
// DefaultOptions.
func Decode(data []byte) (*Module, error) {
	return DecodeWithOptions(data, DefaultOptions())
}

// DecodeWithOptions parses and structurally validates a module. The first
// failure is returned as an *errors.Error and no partial module is produced.
func DecodeWithOptions(data []byte, opts Options) (*Module, error) {
	log := opts.Logger
	if log == nil {
		log = Logger()
	}
	d := &decoder{opts: opts, log: log, m: &Module{}}
	if err := d.decode(data); err != nil {
		var e *errors.Error
		if stderrors.As(err, &e) {
			log.Debug("decode failed",
				zap.Stringer("code", e.Code),
				zap.Int("offset", e.Offset),
				zap.Stringer("payload", e.Payload))
		}
		return nil, err
	}
	return d.m, nil
}

// DecodeRange decodes the module stored in buf[begin:end]. Offsets in
// diagnostics are relative to begin.
func DecodeRange(buf []byte, begin, end int, opts Options) (*Module, error) {
	if begin < 0 || end > len(buf) || begin > end {
		return nil, errors.New(errors.CodeIllegalBeginPointer).
			Payload(errors.Range{Begin: begin, End: end}).
			Build()
	}
	return DecodeWithOptions(buf[begin:end:end], opts)
}

// decoder holds the state of a single decode call.
type decoder struct {
	opts Options
	log  *zap.Logger
	m    *Module

	cur       Section // section being decoded
	present   [maxSectionID + 1]bool
	watermark byte

	importedFuncs    uint32
	importedTables   uint32
	importedMemories uint32
	importedGlobals  uint32

	importKeys  map[importKey]struct{}
	exportNames [kindCount]map[string]struct{}
}

type importKey struct {
	module string
	name   string
	kind   byte
}

func (d *decoder) decode(data []byte) error {
	c := binary.NewCursor(data)

	magic, err := c.ReadU32LE()
	if err != nil || magic != Magic {
		return errors.At(errors.CodeIllegalWasmFileFormat, 0)
	}
	version, err := c.ReadU32LE()
	if err != nil || version != Version {
		return errors.At(errors.CodeIllegalWasmFileFormat, 0)
	}

	for !c.Done() {
		if err := d.nextSection(c); err != nil {
			return err
		}
	}

	if len(d.m.Sections) == 0 && d.opts.RequireSections {
		return errors.At(errors.CodeNoWasmSectionFound, headerSize)
	}
	if len(d.m.Funcs) != len(d.m.Code) {
		return errors.CountMismatch(errors.CodeCodeNeDefinedFunc, len(data),
			uint32(len(d.m.Funcs)), uint32(len(d.m.Code)))
	}
	return nil
}

// nextSection frames one section, enforces ordering and hands the body to
// its decoder.
func (d *decoder) nextSection(c *binary.Cursor) error {
	idOff := c.Pos()
	id, _ := c.ReadByte()
	if id > maxSectionID {
		return errors.WithByte(errors.CodeIllegalSectionID, idOff, id)
	}

	sizeOff := c.Pos()
	size, err := c.ReadU32()
	if err != nil {
		return errors.Malformed(errors.CodeInvalidSectionLength, sizeOff, err)
	}
	if !binary.FitsInt(uint64(size)) {
		return errors.New(errors.CodeSizeExceedsMaxSizeT).At(sizeOff).Payload(errors.U64(size)).Build()
	}
	if int(size) > c.Len() {
		return errors.WithU32(errors.CodeIllegalSectionLength, c.Pos(), size)
	}

	if id != SectionCustom {
		if id <= d.watermark {
			return errors.WithByte(errors.CodeDuplicateSection, idOff, id)
		}
		d.watermark = id
	}

	body, _ := c.Sub(int(size))
	d.cur = Section{ID: id, Offset: idOff, Body: body.Remaining()}
	d.log.Debug("section",
		zap.String("name", SectionName(id)),
		zap.Int("offset", idOff),
		zap.Uint32("size", size))

	if err := d.decodeSection(body); err != nil {
		return err
	}
	d.present[id] = true
	d.m.Sections = append(d.m.Sections, d.cur)
	return nil
}

func (d *decoder) decodeSection(c *binary.Cursor) error {
	switch d.cur.ID {
	case SectionCustom:
		return d.parseCustomSection(c)
	case SectionType:
		return d.parseTypeSection(c)
	case SectionImport:
		return d.parseImportSection(c)
	case SectionFunction:
		return d.parseFunctionSection(c)
	case SectionTable:
		return d.parseTableSection(c)
	case SectionMemory:
		return d.parseMemorySection(c)
	case SectionGlobal:
		return d.parseGlobalSection(c)
	case SectionExport:
		return d.parseExportSection(c)
	case SectionStart:
		return d.parseStartSection(c)
	case SectionElement:
		return d.parseElementSection(c)
	case SectionCode:
		return d.parseCodeSection(c)
	default:
		return d.parseDataSection(c)
	}
}

// requires reports forward_dependency_missing when the prerequisite
// section has not been decoded before the current one.
func (d *decoder) requires(missing byte) error {
	if d.present[missing] {
		return nil
	}
	return errors.New(errors.CodeForwardDependencyMissing).
		At(d.cur.Offset).
		Payload(errors.Sections{Missing: missing, Required: d.cur.ID}).
		Build()
}

// checkImpDef rejects index spaces that no longer fit in a u32.
func checkImpDef(off int, kind byte, imported, defined uint32) error {
	if uint64(imported)+uint64(defined) > math.MaxUint32 {
		return errors.New(errors.CodeImpDefNumExceedU32Max).
			At(off).
			Payload(errors.ImportDefine{Kind: kind, Imported: imported, Defined: defined}).
			Build()
	}
	return nil
}

func (d *decoder) funcSpace() uint32 {
	return d.importedFuncs + uint32(len(d.m.Funcs))
}

func (d *decoder) tableSpace() uint32 {
	return d.importedTables + uint32(len(d.m.Tables))
}

func (d *decoder) memorySpace() uint32 {
	return d.importedMemories + uint32(len(d.m.Memories))
}

func (d *decoder) globalSpace() uint32 {
	return d.importedGlobals + uint32(len(d.m.Globals))
}

func (d *decoder) indexSpace(kind byte) uint32 {
	switch kind {
	case KindFunc:
		return d.funcSpace()
	case KindTable:
		return d.tableSpace()
	case KindMemory:
		return d.memorySpace()
	default:
		return d.globalSpace()
	}
}
