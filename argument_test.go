package aaargs

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveInference(t *testing.T) {
	type cmd struct {
		Filename string `arg:",help:file to read"`
		Encoding string `arg:"-e --encoding"`
		Verbose  bool
		DryRun   bool   `arg:"-n"`
		Name     string `arg:",required"`
		Level    int    `arg:",positional:false,metavar:N"`
		ignored  string
		Skipped  string `arg:"-"`
	}
	p, err := New[cmd]()
	require.NoError(t, err)
	args := p.Arguments()
	require.Len(t, args, 6)

	filename := args[0]
	assert.EqualValues(t, "filename", filename.Name)
	assert.EqualValues(t, "Filename", filename.Field)
	assert.EqualValues(t, []string{"filename"}, filename.Flags)
	assert.True(t, filename.Positional)
	assert.EqualValues(t, "filename", filename.Dest)
	assert.EqualValues(t, ActionStore, filename.Action)
	assert.Equal(t, NoValue, filename.Default)
	assert.EqualValues(t, "file to read", filename.Help)
	assert.Equal(t, reflect.TypeOf(""), filename.Type)

	encoding := args[1]
	assert.EqualValues(t, []string{"-e", "--encoding"}, encoding.Flags)
	assert.False(t, encoding.Positional)
	assert.EqualValues(t, "encoding", encoding.Dest)

	verbose := args[2]
	assert.EqualValues(t, []string{"--verbose"}, verbose.Flags)
	assert.EqualValues(t, ActionStoreTrue, verbose.Action)
	assert.Equal(t, false, verbose.Default)

	dryRun := args[3]
	assert.EqualValues(t, "dry-run", dryRun.Name)
	assert.EqualValues(t, "n", dryRun.Dest)
	assert.Equal(t, false, dryRun.Default)

	name := args[4]
	assert.EqualValues(t, []string{"--name"}, name.Flags)
	assert.True(t, name.Required)
	assert.False(t, name.Positional)

	level := args[5]
	assert.EqualValues(t, []string{"--level"}, level.Flags)
	assert.EqualValues(t, "N", level.Metavar)
}

func TestResolveOnce(t *testing.T) {
	type cmd struct {
		Filename string
		Verbose  bool
	}
	p1, err := New[cmd]()
	require.NoError(t, err)
	p2, err := New[cmd](WithProg("other"))
	require.NoError(t, err)
	assert.Same(t, p1.args[0], p2.args[0])
	assert.Same(t, p1.args[1], p2.args[1])

	// a different tag name is a different declaration
	p3, err := New[cmd](WithTagName("flag"))
	require.NoError(t, err)
	assert.NotSame(t, p1.args[0], p3.args[0])

	// copies handed out don't reach the resolved arguments
	args := p1.Arguments()
	args[0].Flags[0] = "changed"
	assert.EqualValues(t, []string{"filename"}, p1.Arguments()[0].Flags)
}

func TestResolveDeclarationErrors(t *testing.T) {
	type boolPositional struct {
		Verbose bool `arg:",positional"`
	}
	_, err := New[boolPositional]()
	assert.ErrorIs(t, err, ErrKind)

	type boolBareFlag struct {
		Verbose bool `arg:"verbose"`
	}
	_, err = New[boolBareFlag]()
	assert.ErrorIs(t, err, ErrKind)

	type boolDefault struct {
		Verbose bool `arg:",default:maybe"`
	}
	_, err = New[boolDefault]()
	assert.ErrorIs(t, err, ErrValue)

	type requiredPositional struct {
		Filename string `arg:",required,positional"`
	}
	_, err = New[requiredPositional]()
	assert.ErrorIs(t, err, ErrKind)

	type requiredBareName struct {
		Filename string `arg:"filename,required"`
	}
	_, err = New[requiredBareName]()
	assert.ErrorIs(t, err, ErrKind)

	type requiredDefault struct {
		Filename string `arg:"--filename,required,default:a.txt"`
	}
	_, err = New[requiredDefault]()
	assert.ErrorIs(t, err, ErrKind)

	type unknownLabel struct {
		Filename string `arg:",colour:red"`
	}
	_, err = New[unknownLabel]()
	assert.ErrorIs(t, err, ErrUnknownOption)

	type unsupported struct {
		Filename *string
	}
	_, err = New[unsupported]()
	assert.ErrorIs(t, err, ErrKind)

	type badFlag struct {
		Encoding string `arg:"-enc"`
	}
	_, err = New[badFlag]()
	assert.ErrorIs(t, err, ErrKind)

	type twoLongs struct {
		Encoding string `arg:"--encoding --charset"`
	}
	_, err = New[twoLongs]()
	assert.ErrorIs(t, err, ErrKind)

	type mixed struct {
		Encoding string `arg:"-e --encoding,positional"`
	}
	_, err = New[mixed]()
	assert.ErrorIs(t, err, ErrKind)

	type duplicate struct {
		Encoding string `arg:"-e --encoding"`
		Charset  string `arg:"--charset,short:e"`
	}
	_, err = New[duplicate]()
	assert.ErrorIs(t, err, ErrKind)

	type foldedDest struct {
		Mode    string `arg:"--mode"`
		Another string `arg:"--Mode"`
	}
	_, err = New[foldedDest]()
	assert.ErrorIs(t, err, ErrKind)

	type badDefault struct {
		Retry int `arg:"--retry,default:often"`
	}
	_, err = New[badDefault]()
	assert.ErrorIs(t, err, ErrValue)

	type badChoice struct {
		Retry int `arg:"--retry,choices:1|two"`
	}
	_, err = New[badChoice]()
	assert.ErrorIs(t, err, ErrValue)

	_, err = New[int]()
	assert.ErrorIs(t, err, ErrKind)
}

func TestResolveActionErrors(t *testing.T) {
	type constWithoutConst struct {
		Level int `arg:"--loud,dest:level,action:store_const"`
	}
	_, err := New[constWithoutConst]()
	assert.ErrorIs(t, err, ErrKind)

	type countString struct {
		Level string `arg:"-v,action:count"`
	}
	_, err = New[countString]()
	assert.ErrorIs(t, err, ErrKind)

	type countDuration struct {
		Wait time.Duration `arg:"--wait,action:count"`
	}
	_, err = New[countDuration]()
	assert.ErrorIs(t, err, ErrKind)

	type appendScalar struct {
		Tag string `arg:"--tag,action:append"`
	}
	_, err = New[appendScalar]()
	assert.ErrorIs(t, err, ErrKind)

	type storeTrueString struct {
		Tag string `arg:"--tag,action:store_true"`
	}
	_, err = New[storeTrueString]()
	assert.ErrorIs(t, err, ErrKind)

	type positionalCount struct {
		Level int `arg:",positional,action:count"`
	}
	_, err = New[positionalCount]()
	assert.ErrorIs(t, err, ErrKind)

	type unknownAction struct {
		Tag string `arg:"--tag,action:store_maybe"`
	}
	_, err = New[unknownAction]()
	assert.ErrorIs(t, err, ErrValue)
}

func TestResolveNargs(t *testing.T) {
	type scalarStar struct {
		Files string `arg:",nargs:*"`
	}
	_, err := New[scalarStar]()
	assert.ErrorIs(t, err, ErrKind)

	type zero struct {
		Files []string `arg:",nargs:0"`
	}
	_, err = New[zero]()
	assert.ErrorIs(t, err, ErrValue)

	type optionalFlag struct {
		Out string `arg:"--out,nargs:?"`
	}
	_, err = New[optionalFlag]()
	assert.ErrorIs(t, err, ErrKind)

	// flags take one token per occurrence
	type flagCount struct {
		Point []int `arg:"--point,nargs:2"`
	}
	_, err = New[flagCount]()
	assert.ErrorIs(t, err, ErrKind)

	type flagPlus struct {
		Files []string `arg:"-f --file,dest:files,nargs:+"`
	}
	_, err = New[flagPlus]()
	assert.ErrorIs(t, err, ErrKind)

	type cmd struct {
		A string
		B []string
		C []string `arg:",nargs:*"`
		D string   `arg:",nargs:?"`
		E []int    `arg:",nargs:3"`
	}
	p, err := New[cmd]()
	require.NoError(t, err)
	var arities []arity
	var placeholders []string
	for _, a := range p.args {
		arities = append(arities, a.arity)
		placeholders = append(placeholders, a.placeholder())
	}
	assert.EqualValues(t, []arity{{1, 1}, {1, -1}, {0, -1}, {0, 1}, {3, 3}}, arities)
	assert.EqualValues(t, []string{"<A>", "B...", "[C...]", "[D]", "E..."}, placeholders)
}

func TestResolveTypedValues(t *testing.T) {
	type cmd struct {
		Small   int8          `arg:"--small,default:-4"`
		Size    uint16        `arg:"--size,default:512"`
		Limit   Bytes         `arg:"--limit,default:2kB"`
		Wait    time.Duration `arg:"--wait,default:1m"`
		Ports   []int         `arg:"--port,dest:ports,default:80|443"`
		Mode    string        `arg:"--mode,choices:push | pull"`
		Loud    int           `arg:"--loud,dest:loud,action:store_const,const:10"`
		Literal string        `arg:"--literal,default:a\\,b"`
	}
	p, err := New[cmd]()
	require.NoError(t, err)
	args := p.Arguments()

	assert.Equal(t, int8(-4), args[0].Default)
	assert.Equal(t, uint16(512), args[1].Default)
	assert.Equal(t, Bytes(2000), args[2].Default)
	assert.Equal(t, time.Minute, args[3].Default)
	assert.Equal(t, []int{80, 443}, args[4].Default)
	assert.Equal(t, []any{"push", "pull"}, args[5].Choices)
	assert.Equal(t, 10, args[6].Const)
	assert.Equal(t, NoValue, args[6].Default)
	assert.Equal(t, "a,b", args[7].Default)
}

func TestIgnoreUntaggedFields(t *testing.T) {
	type cmd struct {
		Filename string `arg:""`
		Internal string
	}
	p, err := New[cmd](WithIgnoreUntaggedFieldsOption(true))
	require.NoError(t, err)
	args := p.Arguments()
	require.Len(t, args, 1)
	assert.EqualValues(t, "filename", args[0].Name)

	v, err := p.Parse([]string{"x"})
	require.NoError(t, err)
	assert.EqualValues(t, cmd{Filename: "x"}, *v)
}

func TestTagName(t *testing.T) {
	type cmd struct {
		Meta     `flag:"prog:tool"`
		Encoding string `flag:"-e --encoding"`
	}
	p, err := New[cmd](WithTagName("flag"))
	require.NoError(t, err)
	assert.EqualValues(t, "tool", p.Settings().Prog)

	v, err := p.Parse([]string{"-e", "ascii"})
	require.NoError(t, err)
	assert.EqualValues(t, "ascii", v.Encoding)
}
