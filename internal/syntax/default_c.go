package syntax

import "github.com/nanoc-lang/nanoc/pkg/token"

// NewC99 builds the default Syntax Descriptor for C, covering the keyword
// set through C11 plus the GNU extensions the parser tolerates.
// Standard-specific gating of
// `_Generic`/`_Static_assert`/`_Atomic` is the parser's job (it consults
// the requested language standard), not the lexer's — the descriptor
// always recognizes the spelling as a keyword token.
func NewC99() *Descriptor {
	d := &Descriptor{
		Keywords: []Keyword{
			{"auto", token.AUTO}, {"break", token.BREAK}, {"case", token.CASE},
			{"char", token.CHAR_KW}, {"const", token.CONST}, {"continue", token.CONTINUE},
			{"default", token.DEFAULT}, {"do", token.DO}, {"double", token.DOUBLE},
			{"else", token.ELSE}, {"enum", token.ENUM}, {"extern", token.EXTERN},
			{"float", token.FLOAT_KW}, {"for", token.FOR}, {"goto", token.GOTO},
			{"if", token.IF}, {"inline", token.INLINE}, {"int", token.INT_KW},
			{"long", token.LONG}, {"register", token.REGISTER}, {"restrict", token.RESTRICT},
			{"return", token.RETURN}, {"short", token.SHORT}, {"signed", token.SIGNED},
			{"sizeof", token.SIZEOF}, {"static", token.STATIC}, {"struct", token.STRUCT},
			{"switch", token.SWITCH}, {"typedef", token.TYPEDEF}, {"union", token.UNION},
			{"unsigned", token.UNSIGNED}, {"void", token.VOID}, {"volatile", token.VOLATILE},
			{"while", token.WHILE},
			{"_Alignas", token.ALIGNAS}, {"_Alignof", token.ALIGNOF},
			{"_Atomic", token.ATOMIC}, {"_Bool", token.BOOL}, {"_Complex", token.COMPLEX},
			{"_Generic", token.GENERIC}, {"_Imaginary", token.IMAGINARY},
			{"_Noreturn", token.NORETURN}, {"_Static_assert", token.STATIC_ASSERT},
			{"_Thread_local", token.THREAD_LOCAL},
			{"__asm__", token.ASM_KW}, {"__asm", token.ASM_KW},
			{"__attribute__", token.ATTRIBUTE}, {"__attribute", token.ATTRIBUTE},
			{"__extension__", token.EXTENSION}, {"typeof", token.TYPEOF},
			{"__typeof__", token.TYPEOF},
		},
		Operators: []Symbol{
			{"+", token.PLUS}, {"-", token.MINUS}, {"*", token.STAR}, {"/", token.SLASH},
			{"%", token.PERCENT}, {"&", token.AMP}, {"|", token.PIPE}, {"^", token.CARET},
			{"~", token.TILDE}, {"!", token.BANG}, {"=", token.ASSIGN},
			{"<", token.LT}, {">", token.GT},
			{"+=", token.PLUS_ASSIGN}, {"-=", token.MINUS_ASSIGN}, {"*=", token.STAR_ASSIGN},
			{"/=", token.SLASH_ASSIGN}, {"%=", token.PERCENT_ASSIGN}, {"&=", token.AMP_ASSIGN},
			{"|=", token.PIPE_ASSIGN}, {"^=", token.CARET_ASSIGN},
			{"<<=", token.SHL_ASSIGN}, {">>=", token.SHR_ASSIGN},
			{"==", token.EQ}, {"!=", token.NEQ}, {"<=", token.LE}, {">=", token.GE},
			{"&&", token.AND_AND}, {"||", token.OR_OR},
			{"++", token.INC}, {"--", token.DEC},
			{"<<", token.SHL}, {">>", token.SHR},
			{"->", token.ARROW}, {"?", token.QUESTION}, {"...", token.ELLIPSIS},
		},
		Punct: []Symbol{
			{"(", token.LPAREN}, {")", token.RPAREN},
			{"{", token.LBRACE}, {"}", token.RBRACE},
			{"[", token.LBRACK}, {"]", token.RBRACK},
			{";", token.SEMI}, {",", token.COMMA}, {":", token.COLON}, {".", token.DOT},
		},
		Comments: CommentDelimiters{
			LineStart:  "//",
			BlockStart: "/*",
			BlockEnd:   "*/",
		},
		Features: Features{
			HexLiterals:        true,
			BinaryLiterals:     true,
			OctalLiterals:      true,
			FloatLiterals:      true,
			ScientificNotation: true,
			PreprocessorLines:  true,
		},
		StringQuote: '"',
		CharQuote:   '\'',
		Escape:      '\\',
	}
	d.Finalize()
	return d
}

// BuiltinTypeNames is the compile-time table of identifiers the typedef
// oracle treats as type names even though
// they were never declared with `typedef` in the translation unit: fixed
// width integer aliases, platform size/pointer-difference types, and the
// handful of opaque library types whose names appear in type-specifier
// position throughout real C headers.
var BuiltinTypeNames = map[string]bool{
	"int8_t": true, "int16_t": true, "int32_t": true, "int64_t": true,
	"uint8_t": true, "uint16_t": true, "uint32_t": true, "uint64_t": true,
	"intptr_t": true, "uintptr_t": true,
	"size_t": true, "ssize_t": true, "ptrdiff_t": true,
	"wchar_t": true, "wint_t": true,
	"va_list": true, "__builtin_va_list": true,
	"pthread_t": true, "pthread_mutex_t": true, "pthread_cond_t": true,
	"pthread_attr_t": true, "pthread_key_t": true, "pthread_once_t": true,
	"pthread_rwlock_t": true,
	"FILE":             true, "fpos_t": true, "time_t": true, "clock_t": true,
	"off_t": true, "mode_t": true, "pid_t": true, "uid_t": true, "gid_t": true,
	"jmp_buf": true, "sig_atomic_t": true, "div_t": true, "ldiv_t": true,
	"max_align_t": true,
}

// IsBuiltinTypeName reports whether name is a recognized builtin type
// alias, or begins with the literal characters "__builtin_".
func IsBuiltinTypeName(name string) bool {
	if BuiltinTypeNames[name] {
		return true
	}
	const prefix = "__builtin_"
	return len(name) > len(prefix) && name[:len(prefix)] == prefix
}
