package udd

import (
	"strings"
	"testing"
)

func TestResolveTag(t *testing.T) {
	tests := []struct {
		version SchemaVersion
		tag     string
		want    Kind
		known   bool
	}{
		{Version11, "Mod\x00", KindHeader, true},
		{Version11, "\nEnd", KindFooter, true},
		{Version11, "\nUs1", KindUserLabel, true},
		{Version11, "\nUs6", KindUserComment, true},
		{Version11, "\nUsq", "MRU_Label", true},
		{Version11, "\nNam", KindUnknown, false},
		{Version20, "\nNam", KindName, true},
		{Version20, "\nLsa", KindLSA, true},
		{Version20, "\nFcr", "Infos", true},
		{Version20, "\nUs1", KindUnknown, false},
		{SchemaVersion(30), "Mod\x00", KindUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.version.String()+"/"+strings.TrimLeft(tt.tag, "\n"), func(t *testing.T) {
			got, ok := ResolveTag(tt.version, tagOf(tt.tag))
			if got != tt.want || ok != tt.known {
				t.Errorf("ResolveTag() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.known)
			}
		})
	}
}

func TestTagOf_AliasSharesTag(t *testing.T) {
	a, ok := TagOf(Version11, KindUserLabel)
	if !ok {
		t.Fatal("U_LABEL missing from v1.1 table")
	}
	b, ok := TagOf(Version11, "USERLABEL")
	if !ok {
		t.Fatal("USERLABEL missing from v1.1 table")
	}
	if a != b {
		t.Errorf("U_LABEL tag %q differs from USERLABEL tag %q", a, b)
	}
	if _, ok := TagOf(Version20, KindUserLabel); ok {
		t.Error("U_LABEL unexpectedly present in v2.0 table")
	}
}

func TestResolveFieldFormat(t *testing.T) {
	tests := []struct {
		kind Kind
		want FieldFormat
	}{
		{KindHeader, FormatString},
		{KindFooter, FormatEmpty},
		{"Version", FormatVersion},
		{KindSize, FormatDword},
		{"Timestamp", FormatDD2},
		{KindUserLabel, FormatDDString},
		{"MRU_Goto", FormatMRUString},
		{"CFM", FormatDD2String},
		{KindName, FormatName},
		{"Infos", FormatCRC2},
		{"FIND?", FormatBinary},
	}
	for _, tt := range tests {
		got, ok := ResolveFieldFormat(tt.kind)
		if !ok || got != tt.want {
			t.Errorf("ResolveFieldFormat(%q) = (%s, %v), want %s", tt.kind, got, ok, tt.want)
		}
	}
	if _, ok := ResolveFieldFormat("nonexistent"); ok {
		t.Error("ResolveFieldFormat() found a kind that does not exist")
	}
}

func TestBuildRegistry_FormatConflictPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("buildRegistry() did not panic on conflicting formats")
		}
	}()
	buildRegistry(map[SchemaVersion][]entry{
		Version11: {{"Same", "\nAaa", FormatDword}},
		Version20: {{"Same", "\nAaa", FormatString}},
	})
}

func TestBuildRegistry_SharedKindSameFormat(t *testing.T) {
	tbls, fmts := buildRegistry(map[SchemaVersion][]entry{
		Version11: {{"Same", "\nAaa", FormatDword}},
		Version20: {{"Same", "\nBbb", FormatDword}},
	})
	if fmts["Same"] != FormatDword {
		t.Errorf("format = %s, want DWORD", fmts["Same"])
	}
	if tbls[Version11].tags["Same"] == tbls[Version20].tags["Same"] {
		t.Error("tags of different versions should stay independent")
	}
}

func TestVersionFromSignature(t *testing.T) {
	for _, v := range Versions() {
		got, ok := VersionFromSignature(v.Signature())
		if !ok || got != v {
			t.Errorf("VersionFromSignature(%s) = (%s, %v)", v, got, ok)
		}
	}
	if _, ok := VersionFromSignature([]byte("Module info file v1.1")); ok {
		t.Error("signature without terminating NUL accepted")
	}
}

func TestKnownKinds_Order(t *testing.T) {
	kinds := KnownKinds(Version20)
	if len(kinds) == 0 || kinds[0] != KindHeader || kinds[1] != KindFooter {
		t.Errorf("KnownKinds(v2.0) starts with %v", kinds[:2])
	}
	if KnownKinds(SchemaVersion(0)) != nil {
		t.Error("KnownKinds() of unknown version should be nil")
	}
}

func TestCategory(t *testing.T) {
	if CategoryUserLabel.String() != "UserLabel" {
		t.Errorf("String() = %q", CategoryUserLabel.String())
	}
	if Category(0x01).String() != `\x01` {
		t.Errorf("unknown category String() = %q", Category(0x01).String())
	}
	c, ok := CategoryByName("trace_command2")
	if !ok || c != 'u' {
		t.Errorf("CategoryByName() = (%q, %v), want ('u', true)", c, ok)
	}
	if !Category('Y').IsUserEntry() || CategoryImport.IsUserEntry() {
		t.Error("IsUserEntry() misclassifies categories")
	}
}
