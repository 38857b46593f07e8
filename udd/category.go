package udd

// Category classifies NAME, DATA and LSA records of version 2.0 files.
type Category byte

const (
	CategoryUserLabel   Category = '!'
	CategoryUserComment Category = '0'
	CategoryImport      Category = '1'
	CategoryAPIArg      Category = '2'
	CategoryAPICall     Category = '3'
	CategoryMember      Category = '4'
	CategoryUnk6        Category = '6'
	CategoryStruct      Category = '*'

	// LSA only
	CategoryMRULabel          Category = '`'
	CategoryMRUAsm            Category = 'a'
	CategoryMRUComment        Category = 'c'
	CategoryWatch             Category = 'd'
	CategoryMRUGoto           Category = 'e'
	CategoryTraceCondition1   Category = 'p'
	CategoryTraceCondition2   Category = 'q'
	CategoryTraceCondition3   Category = 'r'
	CategoryTraceCondition4   Category = 's'
	CategoryTraceCommand1     Category = 't'
	CategoryTraceCommand2     Category = 'u'
	CategoryProtocolStart     Category = 'v'
	CategoryProtocolEnd       Category = 'w'
	CategoryLogExplanation    Category = 'Q'
	CategoryLogCondition      Category = 'R'
	CategoryLogExpression     Category = 'S'
	CategoryMemExplanation    Category = 'U'
	CategoryMemCondition      Category = 'V'
	CategoryMemExpression     Category = 'W'
	CategoryHBPLogExplanation Category = 'Y'
	CategoryHBPLogCondition   Category = 'Z'
	CategoryHBPLogExpression  Category = '['
)

var categoryNames = map[Category]string{
	CategoryUserLabel:   "UserLabel",
	CategoryUserComment: "UserComment",
	CategoryImport:      "Import",
	CategoryAPIArg:      "APIArg",
	CategoryAPICall:     "APICall",
	CategoryMember:      "Member",
	CategoryUnk6:        "Unk6",
	CategoryStruct:      "Struct",

	CategoryMRULabel:          "mru_label",
	CategoryMRUAsm:            "mru_asm",
	CategoryMRUComment:        "mru_comment",
	CategoryWatch:             "watch",
	CategoryMRUGoto:           "mru_goto",
	CategoryTraceCondition1:   "trace_condition1",
	CategoryTraceCondition2:   "trace_condition2",
	CategoryTraceCondition3:   "trace_condition3",
	CategoryTraceCondition4:   "trace_condition4",
	CategoryTraceCommand1:     "trace_command1",
	CategoryTraceCommand2:     "trace_command2",
	CategoryProtocolStart:     "protocol_start",
	CategoryProtocolEnd:       "protocol_end",
	CategoryLogExplanation:    "log_explanation",
	CategoryLogCondition:      "log_condition",
	CategoryLogExpression:     "log_expression",
	CategoryMemExplanation:    "mem_explanation",
	CategoryMemCondition:      "mem_condition",
	CategoryMemExpression:     "mem_expression",
	CategoryHBPLogExplanation: "hbplog_explanation",
	CategoryHBPLogCondition:   "hbplog_condition",
	CategoryHBPLogExpression:  "hbplog_expression",
}

var categoriesByName = func() map[string]Category {
	m := make(map[string]Category, len(categoryNames))
	for c, n := range categoryNames {
		m[n] = c
	}
	return m
}()

// userCategories are the entries typed in by the user (MRU lists, watches,
// trace and logging breakpoint expressions).
var userCategories = map[Category]bool{
	CategoryWatch:             true,
	CategoryMRUGoto:           true,
	CategoryTraceCondition1:   true,
	CategoryTraceCondition2:   true,
	CategoryTraceCondition3:   true,
	CategoryTraceCondition4:   true,
	CategoryTraceCommand1:     true,
	CategoryTraceCommand2:     true,
	CategoryProtocolStart:     true,
	CategoryProtocolEnd:       true,
	CategoryHBPLogExplanation: true,
	CategoryHBPLogCondition:   true,
	CategoryHBPLogExpression:  true,
	CategoryMRULabel:          true,
	CategoryMRUAsm:            true,
	CategoryMRUComment:        true,
}

// Name returns the symbolic name of c.
func (c Category) Name() (string, bool) {
	n, ok := categoryNames[c]
	return n, ok
}

// String returns the symbolic name, or the raw character for unknown codes.
func (c Category) String() string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return escapeText(string([]byte{byte(c)}))
}

// IsUserEntry reports whether records of this category hold text entered by the user.
func (c Category) IsUserEntry() bool {
	return userCategories[c]
}

// CategoryByName is the reverse of Category.Name.
func CategoryByName(name string) (Category, bool) {
	c, ok := categoriesByName[name]
	return c, ok
}
