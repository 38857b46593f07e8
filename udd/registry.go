package udd

import (
	"bytes"
	"fmt"
	"slices"
)

// SchemaVersion selects the tag table used to interpret a file.
type SchemaVersion int

const (
	Version11 SchemaVersion = 11
	Version20 SchemaVersion = 20
)

var signatures = map[SchemaVersion][]byte{
	Version11: []byte("Module info file v1.1\x00"),
	Version20: []byte("Module info file v2.0\x00"),
}

// Versions lists supported schema versions in ascending order.
func Versions() []SchemaVersion {
	return []SchemaVersion{Version11, Version20}
}

func (v SchemaVersion) Valid() bool {
	_, ok := signatures[v]
	return ok
}

// Signature returns the header payload identifying v, nil for unknown versions.
func (v SchemaVersion) Signature() []byte {
	return bytes.Clone(signatures[v])
}

func (v SchemaVersion) String() string {
	return fmt.Sprintf("v%d.%d", int(v)/10, int(v)%10)
}

// VersionFromSignature maps a header payload to its schema version.
func VersionFromSignature(payload []byte) (SchemaVersion, bool) {
	for v, sig := range signatures {
		if bytes.Equal(sig, payload) {
			return v, true
		}
	}
	return 0, false
}

// Kind is the symbolic name of a chunk tag. Names are shared between
// versions, tags are not.
type Kind string

const KindUnknown Kind = ""

const (
	KindHeader   Kind = "Header"
	KindFooter   Kind = "Footer"
	KindFilename Kind = "Filename"
	KindSize     Kind = "Size"

	KindUserLabel   Kind = "U_LABEL"
	KindUserComment Kind = "U_COMMENT"

	KindName Kind = "Name"
	KindData Kind = "Data"
	KindLSA  Kind = "LSA"
)

var (
	HeaderTag = tagOf("Mod\x00")
	FooterTag = tagOf("\nEnd")
)

type entry struct {
	kind   Kind
	tag    string
	format FieldFormat
}

// Kinds with a trailing '?' were never confirmed, their payloads are kept opaque.
var entries11 = []entry{
	{KindHeader, "Mod\x00", FormatString},
	{KindFooter, "\nEnd", FormatEmpty},
	{KindFilename, "\nFil", FormatString},
	{"Version", "\nVer", FormatVersion},
	{KindSize, "\nSiz", FormatDword},
	{"Timestamp", "\nTst", FormatDD2},
	{"CRC", "\nCcr", FormatDword},
	{"Patch", "\nPat", FormatBinary},
	{"Bpc", "\nBpc", FormatBinary},
	{"Bpt", "\nBpt", FormatBinary},
	{"HwBP", "\nHbr", FormatBinary},
	{"Save", "\nSva", FormatBinary},
	{"AnalyseHint", "\nAht", FormatBinary},

	{"CMD_PLUGINS", "\nUs0", FormatDDString},
	{KindUserLabel, "\nUs1", FormatDDString},
	{"A_LABEL", "\nUs4", FormatDDString},
	{KindUserComment, "\nUs6", FormatDDString},
	{"BPCOND", "\nUs8", FormatDDString},
	{"ApiArg", "\nUs9", FormatDDString},
	{"USERLABEL", "\nUs1", FormatDDString},
	{"Watch", "\nUsA", FormatDDString},

	{"US2", "\nUs2", FormatBinary},
	{"US3", "\nUs3", FormatBinary},
	{"_CONST", "\nUs5", FormatBinary},
	{"A_COMMENT", "\nUs7", FormatBinary},
	{"FIND?", "\nUsC", FormatBinary},
	{"SOURCE?", "\nUsI", FormatBinary},

	{"MRU_Inspect", "\nUs@", FormatMRUString},
	{"MRU_Asm", "\nUsB", FormatMRUString},
	{"MRU_Goto", "\nUsK", FormatMRUString},
	{"MRU_Explanation", "\nUs|", FormatMRUString},
	{"MRU_Expression", "\nUs{", FormatMRUString},
	{"MRU_Watch", "\nUsH", FormatMRUString},
	{"MRU_Label", "\nUsq", FormatMRUString},
	{"MRU_Comment", "\nUsv", FormatMRUString},
	{"MRU_Condition", "\nUsx", FormatMRUString},

	{"MRU_CMDLine", "\nCml", FormatString},

	{"LogExpression", "\nUs;", FormatDDString},
	{"ANALY_COMM", "\nUs:", FormatDDString},
	{"US?", "\nUs?", FormatDDString},
	{"TracCond", "\nUsM", FormatDDString},
	{"LogExplanation", "\nUs<", FormatDDString},
	{"AssumedArgs", "\nUs=", FormatDDString},
	{"CFA", "\nCfa", FormatDD2},
	{"CFM", "\nCfm", FormatDD2String},
	{"CFI", "\nCfi", FormatDD2},

	{"US>", "\nUs>", FormatBinary},
	{"ANC", "\nAnc", FormatBinary},
	{"JDT", "\nJdt", FormatBinary},
	{"PRC", "\nPrc", FormatBinary},
	{"SWI", "\nSwi", FormatBinary},
}

var entries20 = []entry{
	{KindHeader, "Mod\x00", FormatString},
	{KindFooter, "\nEnd", FormatEmpty},
	{KindFilename, "\nFil", FormatString},

	{"Infos", "\nFcr", FormatCRC2},
	{KindName, "\nNam", FormatName},
	{KindData, "\nDat", FormatName},
	{"MemMap", "\nMba", FormatDDString},

	{KindLSA, "\nLsa", FormatName},

	{"JDT", "\nJdt", FormatBinary},
	{"PRC", "\nPrc", FormatBinary},
	{"SWI", "\nSwi", FormatBinary},

	{"CBR", "\nCbr", FormatBinary},
	{"LBR", "\nLbr", FormatBinary},
	{"ANA", "\nAna", FormatBinary},
	{"CAS", "\nCas", FormatBinary},
	{"PRD", "\nPrd", FormatBinary},
	{"Save", "\nSav", FormatBinary},
	{"RTC", "\nRtc", FormatBinary},
	{"RTP", "\nRtp", FormatBinary},
	{"Int3", "\nIn3", FormatBinary},
	{"MemBP", "\nBpm", FormatBinary},
	{"HWBP", "\nBph", FormatBinary},
}

type versionTable struct {
	kinds map[Tag]Kind
	tags  map[Kind]Tag
	order []Kind
}

var (
	tables  map[SchemaVersion]*versionTable
	formats map[Kind]FieldFormat
)

func init() {
	tables, formats = buildRegistry(map[SchemaVersion][]entry{
		Version11: entries11,
		Version20: entries20,
	})
}

// buildRegistry panics on a kind declared with two different formats: the
// format map is shared across versions.
func buildRegistry(src map[SchemaVersion][]entry) (map[SchemaVersion]*versionTable, map[Kind]FieldFormat) {
	tbls := make(map[SchemaVersion]*versionTable, len(src))
	fmts := make(map[Kind]FieldFormat)
	for v, list := range src {
		vt := &versionTable{
			kinds: make(map[Tag]Kind, len(list)),
			tags:  make(map[Kind]Tag, len(list)),
		}
		for _, e := range list {
			t := tagOf(e.tag)
			if _, dup := vt.kinds[t]; !dup {
				vt.kinds[t] = e.kind
			}
			if _, dup := vt.tags[e.kind]; dup {
				panic(fmt.Sprintf("udd: kind %q declared twice for %s", e.kind, v))
			}
			vt.tags[e.kind] = t
			vt.order = append(vt.order, e.kind)
			if f, ok := fmts[e.kind]; ok && f != e.format {
				panic(fmt.Sprintf("udd: kind %q declared as %s and %s", e.kind, f, e.format))
			}
			fmts[e.kind] = e.format
		}
		tbls[v] = vt
	}
	return tbls, fmts
}

// ResolveTag returns the kind of tag for version v. Unknown tags (or unknown
// versions) yield KindUnknown and false.
func ResolveTag(v SchemaVersion, tag Tag) (Kind, bool) {
	vt, ok := tables[v]
	if !ok {
		return KindUnknown, false
	}
	k, ok := vt.kinds[tag]
	return k, ok
}

// TagOf returns the tag of kind k for version v.
func TagOf(v SchemaVersion, k Kind) (Tag, bool) {
	vt, ok := tables[v]
	if !ok {
		return Tag{}, false
	}
	t, ok := vt.tags[k]
	return t, ok
}

// ResolveFieldFormat returns the payload layout of kind k.
func ResolveFieldFormat(k Kind) (FieldFormat, bool) {
	f, ok := formats[k]
	return f, ok
}

// KnownKinds returns the kinds of version v in declaration order.
func KnownKinds(v SchemaVersion) []Kind {
	vt, ok := tables[v]
	if !ok {
		return nil
	}
	return slices.Clone(vt.order)
}

// FormatOf resolves the payload layout of tag for version v.
func FormatOf(v SchemaVersion, tag Tag) (Kind, FieldFormat, bool) {
	k, ok := ResolveTag(v, tag)
	if !ok {
		return KindUnknown, FormatBinary, false
	}
	f, ok := ResolveFieldFormat(k)
	if !ok {
		return k, FormatBinary, false
	}
	return k, f, true
}
