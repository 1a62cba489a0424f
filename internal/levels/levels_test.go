package levels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/multitex/internal/flags"
)

func TestScan_CollapsesDuplicates(t *testing.T) {
	keys := Scan("x {{3}} y {{7}} z {{3}}", nil)
	assert.Equal(t, []string{"3", "7"}, keys)
}

func TestScan_IgnoresNonMarkers(t *testing.T) {
	keys := Scan(`{3} {{x}} {{ 4 }} {{12}}{{}}`, nil)
	assert.Equal(t, []string{"12"}, keys)
}

func TestScan_Empty(t *testing.T) {
	assert.Empty(t, Scan("no markers here", nil))
}

func TestCompilePattern(t *testing.T) {
	re, err := CompilePattern("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPattern, re.String())

	re, err = CompilePattern(`<<(\d+)>>`)
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, Scan("a <<2>> b", re))

	_, err = CompilePattern(`\d+`)
	assert.Error(t, err)

	_, err = CompilePattern(`(\d+)-(\d+)`)
	assert.Error(t, err)

	_, err = CompilePattern(`(`)
	assert.Error(t, err)
}

func TestParseOrder(t *testing.T) {
	o, err := ParseOrder("")
	require.NoError(t, err)
	assert.Equal(t, OrderSorted, o)

	o, err = ParseOrder("Discovery")
	require.NoError(t, err)
	assert.Equal(t, OrderDiscovery, o)

	_, err = ParseOrder("random")
	assert.Error(t, err)
}

func TestAssign_Sorted(t *testing.T) {
	m := Assign([]string{"7", "3", "10"}, OrderSorted, nil)

	assert.Equal(t, []string{"10", "3", "7"}, m.Keys())
	f, ok := m.Flag("10")
	require.True(t, ok)
	assert.Equal(t, "a", f)
	f, _ = m.Flag("3")
	assert.Equal(t, "b", f)
	f, _ = m.Flag("7")
	assert.Equal(t, "c", f)
}

func TestAssign_Discovery(t *testing.T) {
	m := Assign([]string{"7", "3"}, OrderDiscovery, nil)

	assert.Equal(t, []string{"7", "3"}, m.Keys())
	assert.Equal(t, []string{"3", "7"}, m.Sorted())
	f, _ := m.Flag("7")
	assert.Equal(t, "a", f)
	f, _ = m.Flag("3")
	assert.Equal(t, "b", f)
}

func TestAssign_Injective(t *testing.T) {
	var keys []string
	for i := 0; i < 100; i++ {
		keys = append(keys, flags.At(i)+"x")
	}
	keys = append(keys, keys[0], keys[1])

	m := Assign(keys, OrderSorted, nil)
	require.Equal(t, 100, m.Len())

	seen := make(map[string]string)
	for _, k := range m.Keys() {
		f, ok := m.Flag(k)
		require.True(t, ok)
		if other, dup := seen[f]; dup {
			t.Fatalf("flag %q bound to both %q and %q", f, other, k)
		}
		seen[f] = k
	}
}

func TestAssign_SharedAllocatorContinues(t *testing.T) {
	alloc := flags.NewAllocator()
	alloc.Next()
	m := Assign([]string{"1"}, OrderSorted, alloc)
	f, _ := m.Flag("1")
	assert.Equal(t, "b", f)
}

func TestSanitize(t *testing.T) {
	m := Assign([]string{"3"}, OrderSorted, nil)
	assert.Equal(t, "AaBaC", Sanitize("A{{3}}B{{3}}C", nil, m))
}

func TestSanitize_MultipleLevels(t *testing.T) {
	m := Assign([]string{"1", "12"}, OrderSorted, nil)
	got := Sanitize(`\if{{1}} one \fi \if{{12}} twelve \fi {{2}}`, nil, m)
	assert.Equal(t, `\ifa one \fi \ifb twelve \fi {{2}}`, got)
}

func TestSanitize_EmptyMapping(t *testing.T) {
	assert.Equal(t, "{{1}}", Sanitize("{{1}}", nil, Mapping{}))
}

func TestSanitize_CustomPattern(t *testing.T) {
	re, err := CompilePattern(`<<(\d+)>>`)
	require.NoError(t, err)
	text := `\newif\if<<5>>\<<5>>false {{5}} <<7>>`
	m := Assign(Scan(text, re), OrderSorted, nil)

	assert.Equal(t, `\newif\ifa\afalse {{5}} b`, Sanitize(text, re, m))
}

func TestSanitize_ReplacementIsLiteral(t *testing.T) {
	re, err := CompilePattern(`\$(\d+)`)
	require.NoError(t, err)
	m := Assign([]string{"1"}, OrderSorted, nil)

	assert.Equal(t, "cost a and $x", Sanitize("cost $1 and $x", re, m))
}

func TestMapping_AccessorsReturnCopies(t *testing.T) {
	m := Assign([]string{"1", "2"}, OrderSorted, nil)
	keys := m.Keys()
	keys[0] = "mutated"
	assert.Equal(t, []string{"1", "2"}, m.Keys())
}
