package pointmass

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type vec struct{ X, Y, Z float64 }

func (v vec) Coords() (float64, float64, float64) { return v.X, v.Y, v.Z }
func (vec) WithCoords(x, y, z float64) vec       { return vec{x, y, z} }

type elem = Element[float64, vec]
type coll = Collection[float64, vec]

func mustNew(t *testing.T, amount float64, p vec, name string) *elem {
	t.Helper()
	e, err := New[float64](amount, p, name)
	require.NoError(t, err)
	return e
}

func mustCollection(t *testing.T, elems ...*elem) *coll {
	t.Helper()
	c, err := NewCollection(elems)
	require.NoError(t, err)
	return c
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		point  vec
		opts   []Option
		ok     bool
	}{
		{"positive", 10, vec{1, 2, 3}, nil, true},
		{"zero", 0, vec{}, nil, true},
		{"negative rejected", -10, vec{2, 3, 4}, nil, false},
		{"negative allowed", -10, vec{2, 3, 4}, []Option{AllowNegative()}, true},
		{"nan amount", math.NaN(), vec{}, nil, false},
		{"inf amount", math.Inf(1), vec{}, nil, false},
		{"nan allowed-negative still rejected", math.NaN(), vec{}, []Option{AllowNegative()}, false},
		{"inf coordinate", 1, vec{0, math.Inf(-1), 0}, nil, false},
		{"nan coordinate", 1, vec{math.NaN(), 0, 0}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := New[float64](tt.amount, tt.point, "", tt.opts...)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, tt.amount, e.Amount())
				assert.Equal(t, tt.point, e.Point())
				return
			}
			require.Error(t, err)
			assert.Nil(t, e)
			assert.True(t, IsInvalidArgument(err))
		})
	}
}

func TestElementAccessors(t *testing.T) {
	e := mustNew(t, 10, vec{2, 3, 4}, "tank")
	assert.Equal(t, "tank", e.Name())

	cg, err := e.CG()
	require.NoError(t, err)
	assert.Equal(t, vec{2, 3, 4}, cg)

	mx, my, mz := e.Moment()
	assert.Equal(t, [3]float64{20, 30, 40}, [3]float64{mx, my, mz})

	e.SetName("fuel")
	assert.Equal(t, "fuel", e.Name())
}

func TestCollectionTotals(t *testing.T) {
	c := mustCollection(t)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0.0, c.Amount())

	require.NoError(t, c.Add(mustNew(t, 10, vec{2, 3, 4}, "")))
	require.NoError(t, c.Add(mustNew(t, 10, vec{2, 3, 4}, "")))
	require.NoError(t, c.Add(mustNew(t, 15, vec{2, 3, 4}, "")))

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, 35.0, c.Amount())

	cg, err := c.CG()
	require.NoError(t, err)
	assert.InDelta(t, 2, cg.X, 1e-9)
	assert.InDelta(t, 3, cg.Y, 1e-9)
	assert.InDelta(t, 4, cg.Z, 1e-9)
}

func TestCollectionCG(t *testing.T) {
	c := mustCollection(t,
		mustNew(t, 10, vec{2, 5, 20}, ""),
		mustNew(t, 10, vec{10, 5, 30}, ""),
	)

	assert.Equal(t, 20.0, c.Amount())
	cg, err := c.CG()
	require.NoError(t, err)
	assert.Equal(t, vec{6, 5, 25}, cg)
}

func TestCollectionAdditivityIgnoresOrder(t *testing.T) {
	elems := []*elem{
		mustNew(t, 1.25, vec{1, 0, 0}, ""),
		mustNew(t, 3.5, vec{0, 2, 0}, ""),
		mustNew(t, 0.75, vec{0, 0, -3}, ""),
		mustNew(t, 12, vec{4, 4, 4}, ""),
	}
	forward := mustCollection(t, elems...)
	reversed := mustCollection(t, elems[3], elems[2], elems[1], elems[0])

	assert.InDelta(t, 17.5, forward.Amount(), 1e-12)
	assert.InDelta(t, forward.Amount(), reversed.Amount(), 1e-12)

	fcg, err := forward.CG()
	require.NoError(t, err)
	rcg, err := reversed.CG()
	require.NoError(t, err)
	assert.InDelta(t, fcg.X, rcg.X, 1e-9)
	assert.InDelta(t, fcg.Y, rcg.Y, 1e-9)
	assert.InDelta(t, fcg.Z, rcg.Z, 1e-9)

	// weighted-average law
	var sum, sx, sy, sz float64
	for _, e := range elems {
		sum += e.Amount()
		sx += e.Amount() * e.Point().X
		sy += e.Amount() * e.Point().Y
		sz += e.Amount() * e.Point().Z
	}
	assert.InDelta(t, sx/sum, fcg.X, 1e-9)
	assert.InDelta(t, sy/sum, fcg.Y, 1e-9)
	assert.InDelta(t, sz/sum, fcg.Z, 1e-9)
}

func TestCollectionRejectsNil(t *testing.T) {
	_, err := NewCollection([]*elem{mustNew(t, 1, vec{}, ""), nil})
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))
	assert.Contains(t, err.Error(), "element 1")

	c := mustCollection(t, mustNew(t, 1, vec{}, ""))
	err = c.Add(nil)
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))
	assert.Equal(t, 1, c.Len(), "failed Add must not mutate")
}

func TestCollectionCopiesInput(t *testing.T) {
	elems := []*elem{mustNew(t, 1, vec{}, "a")}
	c := mustCollection(t, elems...)
	elems[0] = mustNew(t, 99, vec{}, "b")

	assert.Equal(t, 1.0, c.Amount())

	out := c.Elements()
	out[0] = nil
	assert.NotNil(t, c.Elements()[0])
}

func TestCollectionPreservesOrder(t *testing.T) {
	c := mustCollection(t)
	for _, name := range []string{"a", "b", "c", "d"} {
		require.NoError(t, c.Add(mustNew(t, 1, vec{}, name)))
	}
	var names []string
	for _, e := range c.Elements() {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, names)
}

func TestCollectionCGZeroTotal(t *testing.T) {
	empty := mustCollection(t)
	_, err := empty.CG()
	require.Error(t, err)
	assert.True(t, IsDivisionByZero(err))

	var zero coll
	_, err = zero.CG()
	assert.True(t, IsDivisionByZero(err))

	n1, err := New[float64](5, vec{1, 0, 0}, "")
	require.NoError(t, err)
	n2, err := New[float64](-5, vec{3, 0, 0}, "", AllowNegative())
	require.NoError(t, err)
	balanced := mustCollection(t, n1, n2)
	_, err = balanced.CG()
	assert.True(t, IsDivisionByZero(err))
}

func TestFindCorrector(t *testing.T) {
	tests := []struct {
		name     string
		source   vec
		target   Target[float64]
		expected vec
	}{
		{"offset", vec{10, 0, -10}, Target[float64]{Amount: 20, X: 50}, vec{90, 0, 10}},
		{"mirror", vec{10, 0, 0}, Target[float64]{Amount: 20}, vec{-10, 0, 0}},
		{"origin", vec{0, 0, 0}, Target[float64]{Amount: 20}, vec{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			single := mustNew(t, 10, tt.source, "")
			c := mustCollection(t, single)

			for _, src := range []Body[float64, vec]{single, c} {
				corr, err := FindCorrector(src, tt.target)
				require.NoError(t, err)
				assert.Equal(t, 10.0, corr.Amount())
				assert.Equal(t, tt.expected, corr.Point())
				assert.Empty(t, corr.Name())
			}
		})
	}
}

func TestFindCorrectorExactness(t *testing.T) {
	c := mustCollection(t,
		mustNew(t, 3.2, vec{1.5, -0.25, 0.8}, ""),
		mustNew(t, 7.9, vec{-2.0, 1.75, 0.1}, ""),
		mustNew(t, 0.4, vec{12.0, 3.0, -4.5}, ""),
	)
	target := Target[float64]{Amount: 25, X: 0.3, Y: 0.7, Z: -0.2}

	corr, err := FindCorrector[float64, vec](c, target)
	require.NoError(t, err)
	assert.InDelta(t, 25-11.5, corr.Amount(), 1e-12)

	require.NoError(t, c.Add(corr))
	assert.InDelta(t, 25, c.Amount(), 1e-9)
	cg, err := c.CG()
	require.NoError(t, err)
	assert.InDelta(t, 0.3, cg.X, 1e-9)
	assert.InDelta(t, 0.7, cg.Y, 1e-9)
	assert.InDelta(t, -0.2, cg.Z, 1e-9)
}

func TestFindCorrectorOverrideZ(t *testing.T) {
	c := mustCollection(t,
		mustNew(t, 4, vec{1, 2, 3}, ""),
		mustNew(t, 6, vec{-1, 0, 5}, ""),
	)
	z := 1.25
	corr, err := FindCorrector[float64, vec](c, Target[float64]{Amount: 30, X: 2, Y: 1, Z: 9, OverrideZ: &z})
	require.NoError(t, err)
	assert.Equal(t, 1.25, corr.Point().Z)

	require.NoError(t, c.Add(corr))
	cg, err := c.CG()
	require.NoError(t, err)
	assert.InDelta(t, 2, cg.X, 1e-9)
	assert.InDelta(t, 1, cg.Y, 1e-9)
}

func TestFindCorrectorRejections(t *testing.T) {
	src := mustNew(t, 10, vec{1, 1, 1}, "")
	nan := math.NaN()

	tests := []struct {
		name   string
		target Target[float64]
	}{
		{"over target", Target[float64]{Amount: 9.5}},
		{"nan target mass", Target[float64]{Amount: nan}},
		{"inf target x", Target[float64]{Amount: 20, X: math.Inf(1)}},
		{"nan override z", Target[float64]{Amount: 20, OverrideZ: &nan}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			corr, err := FindCorrector[float64, vec](src, tt.target)
			require.Error(t, err)
			assert.Nil(t, corr)
			assert.True(t, IsInvalidArgument(err))
		})
	}

	_, err := FindCorrector[float64, vec](nil, Target[float64]{Amount: 1})
	assert.True(t, IsInvalidArgument(err))

	var nilElem *elem
	corr, err := FindCorrector[float64, vec](nilElem, Target[float64]{Amount: 1})
	assert.Nil(t, corr)
	assert.True(t, IsInvalidArgument(err))

	var nilColl *coll
	corr, err = FindCorrector[float64, vec](nilColl, Target[float64]{Amount: 1})
	assert.Nil(t, corr)
	assert.True(t, IsInvalidArgument(err))
}

func TestFindCorrectorOverTargetMessage(t *testing.T) {
	src := mustNew(t, 10, vec{}, "")
	_, err := FindCorrector[float64, vec](src, Target[float64]{Amount: 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "should not exceed target mass")
}

func TestFindCorrectorZeroCorrector(t *testing.T) {
	src := mustNew(t, 10, vec{1, 2, 3}, "")

	t.Run("matching cg yields zero mass at target", func(t *testing.T) {
		corr, err := FindCorrector[float64, vec](src, Target[float64]{Amount: 10, X: 1, Y: 2, Z: 3})
		require.NoError(t, err)
		assert.Equal(t, 0.0, corr.Amount())
		assert.Equal(t, vec{1, 2, 3}, corr.Point())
	})

	t.Run("matching cg honors override z", func(t *testing.T) {
		z := -4.0
		corr, err := FindCorrector[float64, vec](src, Target[float64]{Amount: 10, X: 1, Y: 2, Z: 3, OverrideZ: &z})
		require.NoError(t, err)
		assert.Equal(t, vec{1, 2, -4}, corr.Point())
	})

	t.Run("different cg is division by zero", func(t *testing.T) {
		_, err := FindCorrector[float64, vec](src, Target[float64]{Amount: 10, X: 5, Y: 2, Z: 3})
		require.Error(t, err)
		assert.True(t, IsDivisionByZero(err))
		assert.False(t, IsInvalidArgument(err))
	})

	t.Run("tolerance widens acceptance", func(t *testing.T) {
		corr, err := FindCorrector[float64, vec](src, Target[float64]{Amount: 10, X: 1.001, Y: 2, Z: 3}, WithTolerance(0.1))
		require.NoError(t, err)
		assert.Equal(t, 0.0, corr.Amount())
	})
}

func TestFindCorrectorFromEmptyCollection(t *testing.T) {
	c := mustCollection(t)
	corr, err := FindCorrector[float64, vec](c, Target[float64]{Amount: 8, X: 1, Y: -2, Z: 0.5})
	require.NoError(t, err)
	assert.Equal(t, 8.0, corr.Amount())
	assert.Equal(t, vec{1, -2, 0.5}, corr.Point())
}

func TestFindCorrectorZeroTotalUsesMoment(t *testing.T) {
	a, err := New[float64](5, vec{1, 0, 0}, "")
	require.NoError(t, err)
	b, err := New[float64](-5, vec{3, 0, 0}, "", AllowNegative())
	require.NoError(t, err)
	c := mustCollection(t, a, b)

	corr, err := FindCorrector[float64, vec](c, Target[float64]{Amount: 10})
	require.NoError(t, err)

	require.NoError(t, c.Add(corr))
	cg, err := c.CG()
	require.NoError(t, err)
	assert.InDelta(t, 0, cg.X, 1e-9)
}

func TestObserverSeesErrors(t *testing.T) {
	var seen []*Error
	obs := WithObserver(func(e *Error) { seen = append(seen, e) })

	_, err := New[float64](-1, vec{}, "", obs)
	require.Error(t, err)
	require.Len(t, seen, 1)
	assert.Equal(t, KindInvalidArgument, seen[0].Kind)
	assert.Equal(t, "new", seen[0].Op)

	c, err := NewCollection[float64, vec](nil, obs)
	require.NoError(t, err)
	_ = c.Add(nil)
	_, _ = c.CG()
	require.Len(t, seen, 3)
	assert.Equal(t, "add", seen[1].Op)
	assert.Equal(t, KindDivisionByZero, seen[2].Kind)
}

func TestLogObserver(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	_, err := New[float64](-3, vec{}, "", WithObserver(LogObserver(logger)))
	require.Error(t, err)
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "kind=INVALID_ARGUMENT")
	assert.Contains(t, buf.String(), "should be positive or zero")
}

func TestErrorsWithoutObserver(t *testing.T) {
	// errors do not depend on an observer being installed
	_, err := New[float64](-3, vec{}, "", WithObserver(nil))
	assert.True(t, IsInvalidArgument(err))
	assert.False(t, IsInvalidArgument(nil))
	assert.False(t, IsDivisionByZero(assert.AnError))
}

func TestChainObservers(t *testing.T) {
	var a, b int
	obs := Chain(func(*Error) { a++ }, nil, func(*Error) { b++ })

	_, err := New[float64](-1, vec{}, "", WithObserver(obs))
	require.Error(t, err)
	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)
}
