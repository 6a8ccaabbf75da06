package signal

import (
	"math/rand"
	"testing"

	"github.com/newthinker/mocha/internal/series"
	"github.com/stretchr/testify/assert"
)

const (
	U = series.Undefined
	F = series.False
	T = series.True
)

func TestReduceBools_FirstBarOfRun(t *testing.T) {
	got := ReduceBools([]bool{false, true, true, false, true})
	assert.Equal(t, []bool{false, true, false, false, true}, got)
}

func TestReduce_UndefinedIsFalse(t *testing.T) {
	tests := []struct {
		name  string
		conds []series.Cond
		want  []bool
	}{
		{"empty", nil, []bool{}},
		{"warm-up then run", []series.Cond{U, U, T, T, F}, []bool{false, false, true, false, false}},
		{"undefined breaks a run", []series.Cond{T, U, T}, []bool{true, false, true}},
		{"all true", []series.Cond{T, T, T, T}, []bool{true, false, false, false}},
		{"all undefined", []series.Cond{U, U}, []bool{false, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Reduce(tt.conds))
		})
	}
}

func randomConds(r *rand.Rand, n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = r.Intn(2) == 1
	}
	return out
}

func TestReduceBools_Idempotent(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		conds := randomConds(r, r.Intn(60))
		once := ReduceBools(conds)
		assert.Equal(t, once, ReduceBools(once))
	}
}

func TestReduceBools_OneSignalPerRun(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for i := 0; i < 200; i++ {
		conds := randomConds(r, r.Intn(60))
		out := ReduceBools(conds)

		assert.Equal(t, Runs(conds), Count(out))
		for j, fired := range out {
			if fired {
				assert.True(t, conds[j])
				assert.True(t, j == 0 || !conds[j-1], "signal at %d is not the first bar of its run", j)
			}
		}
	}
}

func TestReducer_Stream(t *testing.T) {
	var r Reducer

	assert.True(t, r.Step(true))
	assert.True(t, r.Active())
	assert.False(t, r.Step(true))

	r.Reset()
	assert.False(t, r.Active())
	assert.True(t, r.Step(true))
	assert.False(t, r.Step(false))
	assert.False(t, r.Active())
}

func TestPair_Independent(t *testing.T) {
	s := Pair([]series.Cond{T, T, F}, []series.Cond{F, T, T})

	assert.Equal(t, []bool{true, false, false}, s.Buy)
	assert.Equal(t, []bool{false, true, false}, s.Sell)
}
