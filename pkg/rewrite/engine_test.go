package rewrite_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gocitations/pkg/rewrite"
)

func TestApply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		input       string
		want        string
		wantChanged bool
	}{
		{"empty input", "", "", false},
		{"no target characters", "Kalles bil", "Kalles bil", false},
		{"comma and doubled apostrophe", "Det sa han,''", "Det sa han”,", true},
		{"straight double quotes", `Det var en "bok"`, "Det var en ”bok”", true},
		{"genitive apostrophe", "Kalle's bil", "Kalle’s bil", true},
		{"opening curly quote", "“hej”", "”hej”", true},
		{"comma then straight quote", `mamma,"sa hon"`, "mamma”,sa hon”", true},
		{"doubled apostrophes as quotes", "''Hej''", "”Hej”", true},
		{"tripled apostrophe", "'''", "”’", true},
		{"comma before closing curly quote", "ja,” sa hon", "ja”, sa hon", true},
		{"already typographic", "Kalle’s ”bok”", "Kalle’s ”bok”", false},
		{
			"mixed sentence",
			`Han sa,'' och hon sa "nej," igen`,
			"Han sa”, och hon sa ”nej”, igen",
			true,
		},
		{"multiline", "rad 1 'a'\nrad 2 \"b\"\n", "rad 1 ’a’\nrad 2 ”b”\n", true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, changed := rewrite.Apply(testCase.input)
			assert.Equal(t, testCase.want, got)
			assert.Equal(t, testCase.wantChanged, changed)
		})
	}
}

func TestApply_RuleOrderMatters(t *testing.T) {
	t.Parallel()

	table := rewrite.DefaultTable()
	reversed := make(rewrite.Table, 0, len(table))
	for i := len(table) - 1; i >= 0; i-- {
		reversed = append(reversed, table[i])
	}

	input := `a,"`
	got, _ := rewrite.Apply(input)
	gotReversed, _ := rewrite.NewEngine(reversed).Apply(input)

	assert.Equal(t, "a”,", got)
	assert.Equal(t, "a,”", gotReversed)
}

func TestApply_OpeningQuoteAfterComma(t *testing.T) {
	t.Parallel()

	// The opening-quote rule runs after the comma re-normalization, so a
	// comma before an opening quote only moves on a second pass.
	once, changed := rewrite.Apply(",“")
	require.True(t, changed)
	assert.Equal(t, ",”", once)

	twice, changed := rewrite.Apply(once)
	assert.True(t, changed)
	assert.Equal(t, "”,", twice)
}

func TestApply_SecondPassOnlyMovesCommas(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		once  string
		twice string
	}{
		{",“", ",”", "”,"},
		{",,”", ",”,", "”,,"},
		{",””", "”,”", "””,"},
		{",”,”", "”,”,", "””,,"},
	}

	for _, testCase := range tests {
		once, _ := rewrite.Apply(testCase.input)
		assert.Equal(t, testCase.once, once, "input %q", testCase.input)

		twice, changed := rewrite.Apply(once)
		assert.True(t, changed, "input %q", testCase.input)
		assert.Equal(t, testCase.twice, twice, "input %q", testCase.input)
	}
}

func TestApply_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"Kalles bil",
		"Det sa han,''",
		`Det var en "bok"`,
		"Kalle's bil",
		"“hej”",
		`mamma,"sa hon"`,
		`Han sa,'' och hon sa "nej," igen`,
		"''''''",
		`"""`,
		"it's 'quoted' and \"double\"",
	}

	for _, input := range inputs {
		once, _ := rewrite.Apply(input)
		twice, changed := rewrite.Apply(once)
		assert.Equal(t, once, twice, "input %q", input)
		assert.False(t, changed, "input %q", input)
	}
}

func TestEngine_ApplyDetailed(t *testing.T) {
	t.Parallel()

	engine := rewrite.Default()
	result := engine.ApplyDetailed(`Han sa,'' och hon sa "nej," igen`)

	require.Len(t, result.Counts, len(rewrite.DefaultTable()))
	assert.True(t, result.Changed)
	assert.Equal(t, "Han sa”, och hon sa ”nej”, igen", result.Text)

	counts := make(map[string]int, len(result.Counts))
	for _, c := range result.Counts {
		counts[c.Rule.ID] = c.Count
	}
	assert.Equal(t, map[string]int{
		"QT001": 1,
		"QT002": 1,
		"QT003": 0,
		"QT004": 0,
		"QT005": 1,
		"QT006": 0,
		"QT007": 0,
	}, counts)
	assert.Equal(t, 3, result.Substitutions())
}

func TestEngine_ApplyDetailedMatchesApply(t *testing.T) {
	t.Parallel()

	engine := rewrite.Default()
	for _, input := range []string{"", "plain", "a 'b' \"c\" “d”", ",,”"} {
		text, changed := engine.Apply(input)
		result := engine.ApplyDetailed(input)
		assert.Equal(t, text, result.Text)
		assert.Equal(t, changed, result.Changed)
	}
}

func TestDefaultTable(t *testing.T) {
	t.Parallel()

	table := rewrite.DefaultTable()
	require.Len(t, table, 7)

	wantIDs := []string{"QT001", "QT002", "QT003", "QT004", "QT005", "QT006", "QT007"}
	for i, rule := range table {
		assert.Equal(t, wantIDs[i], rule.ID)
		assert.NotEmpty(t, rule.Name)
		assert.NotEmpty(t, rule.Pattern)
	}

	// Mutating a returned table must not affect the engine.
	table[0].Replacement = "X"
	got, _ := rewrite.Apply(",''")
	assert.Equal(t, "”,", got)
}

func TestTable_Lookup(t *testing.T) {
	t.Parallel()

	table := rewrite.DefaultTable()

	rule, ok := table.Lookup("qt005")
	require.True(t, ok)
	assert.Equal(t, "double-quote", rule.Name)

	rule, ok = table.Lookup("Opening-Double-Quote")
	require.True(t, ok)
	assert.Equal(t, "QT007", rule.ID)

	_, ok = table.Lookup("no-such-rule")
	assert.False(t, ok)
}

func TestRule_EmptyPattern(t *testing.T) {
	t.Parallel()

	got, n := rewrite.Rule{Pattern: "", Replacement: "x"}.Apply("abc")
	assert.Equal(t, "abc", got)
	assert.Zero(t, n)
}

func FuzzApply(f *testing.F) {
	f.Add("")
	f.Add("Det sa han,''")
	f.Add(`mamma,"sa hon"`)
	f.Add("“hej”")
	f.Add(",,”'\"“")

	f.Add(",””")
	f.Add(",”,”")

	commaBeforeQuote := "," + rewrite.RightDoubleQuote

	f.Fuzz(func(t *testing.T, input string) {
		got, changed := rewrite.Apply(input)

		if changed != (got != input) {
			t.Errorf("changed = %v but equality says %v", changed, got != input)
		}
		for _, straight := range []string{rewrite.Apostrophe, rewrite.StraightDoubleQuote, rewrite.LeftDoubleQuote} {
			if strings.Contains(got, straight) {
				t.Errorf("output %q still contains %q", got, straight)
			}
		}
		if strings.Count(got, ",") != strings.Count(input, ",") {
			t.Errorf("comma count changed: %q -> %q", input, got)
		}

		// Only the comma-before-quote rule can match a second time.
		again, changedAgain := rewrite.Apply(got)
		if wantAgain := strings.Contains(got, commaBeforeQuote); changedAgain != wantAgain {
			t.Errorf("second pass on %q changed = %v, want %v", got, changedAgain, wantAgain)
		}
		if !strings.Contains(input, ",") && again != got {
			t.Errorf("comma-free input %q not idempotent: %q -> %q", input, got, again)
		}
	})
}

func BenchmarkApply(b *testing.B) {
	doc := strings.Repeat(`Han sa,'' och hon sa "nej," igen. Kalle's bil är “röd”.`+"\n", 200)

	b.ResetTimer()
	for range b.N {
		_, _ = rewrite.Apply(doc)
	}
}

func TestEngine_Rewrite(t *testing.T) {
	t.Parallel()

	result, err := rewrite.Default().Rewrite(context.Background(), "Kalle's bil")
	require.NoError(t, err)
	assert.Equal(t, "Kalle’s bil", result.Text)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = rewrite.Default().Rewrite(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}
