package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlan(t *testing.T) Plan {
	t.Helper()
	plan, err := NewPlan(StepMinutes,
		[]Tier{
			{UpToMinutes: 30, PricePerStepCents: 100},
			{UpToMinutes: 60, PricePerStepCents: 80},
		},
		50, 2000,
		map[string]int{"monthly": 9900, "weekend": 4500},
		"EUR")
	require.NoError(t, err)
	return plan
}

func TestNewPlanValidation(t *testing.T) {
	tests := []struct {
		name    string
		step    int
		tiers   []Tier
		defRate int
		penalty int
		subs    map[string]int
		wantErr bool
	}{
		{name: "valid empty tiers", step: 15, defRate: 50, penalty: 0},
		{
			name: "valid ladder",
			step: 15,
			tiers: []Tier{
				{UpToMinutes: 30, PricePerStepCents: 100},
				{UpToMinutes: 60, PricePerStepCents: 80},
			},
			defRate: 50,
		},
		{name: "wrong step size", step: 10, defRate: 50, wantErr: true},
		{
			name: "non increasing bounds",
			step: 15,
			tiers: []Tier{
				{UpToMinutes: 60, PricePerStepCents: 100},
				{UpToMinutes: 30, PricePerStepCents: 80},
			},
			defRate: 50,
			wantErr: true,
		},
		{
			name:    "bound not multiple of step",
			step:    15,
			tiers:   []Tier{{UpToMinutes: 20, PricePerStepCents: 100}},
			defRate: 50,
			wantErr: true,
		},
		{
			name:    "negative tier price",
			step:    15,
			tiers:   []Tier{{UpToMinutes: 30, PricePerStepCents: -1}},
			defRate: 50,
			wantErr: true,
		},
		{name: "negative default rate", step: 15, defRate: -5, wantErr: true},
		{name: "negative penalty", step: 15, defRate: 50, penalty: -1, wantErr: true},
		{name: "negative subscription price", step: 15, defRate: 50,
			subs: map[string]int{"monthly": -100}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPlan(tt.step, tt.tiers, tt.defRate, tt.penalty, tt.subs, "EUR")
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidPlan)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestComputePriceCents(t *testing.T) {
	plan := testPlan(t)

	tests := []struct {
		name    string
		minutes int
		want    int
	}{
		{name: "zero minutes free", minutes: 0, want: 0},
		{name: "negative minutes free", minutes: -30, want: 0},
		// 20 минут округляется до 30: два шага первой ступени по 100.
		{name: "partial step rounds up", minutes: 20, want: 200},
		{name: "exactly one step", minutes: 15, want: 100},
		// 45 минут: ступень 1 (30 мин = 2 шага по 100) + ступень 2 (15 мин = 1 шаг по 80).
		{name: "crosses into second tier", minutes: 45, want: 280},
		{name: "fills both tiers", minutes: 60, want: 360},
		// 90 минут: 200 + 160 + два шага по базовой цене 50.
		{name: "past tiers default rate", minutes: 90, want: 460},
		{name: "one minute charges full step", minutes: 1, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, plan.ComputePriceCents(tt.minutes))
		})
	}
}

func TestComputePriceCentsEmptyTiers(t *testing.T) {
	plan, err := NewPlan(StepMinutes, nil, 50, 0, nil, "EUR")
	require.NoError(t, err)

	assert.Equal(t, 50, plan.ComputePriceCents(10))
	assert.Equal(t, 200, plan.ComputePriceCents(60))
}

// Цена не убывает с ростом длительности.
func TestComputePriceCentsMonotonic(t *testing.T) {
	plan := testPlan(t)

	prev := 0
	for minutes := 0; minutes <= 480; minutes++ {
		got := plan.ComputePriceCents(minutes)
		assert.GreaterOrEqual(t, got, prev, "minutes=%d", minutes)
		prev = got
	}
}

// Округление до шага идемпотентно: цена за m равна цене за m,
// округленное вверх до кратного шагу.
func TestComputePriceCentsStepIdempotence(t *testing.T) {
	plan := testPlan(t)

	for minutes := 1; minutes <= 240; minutes++ {
		rounded := (minutes + StepMinutes - 1) / StepMinutes * StepMinutes
		assert.Equal(t, plan.ComputePriceCents(rounded), plan.ComputePriceCents(minutes),
			"minutes=%d rounded=%d", minutes, rounded)
	}
}

func TestComputeOverstayPriceCents(t *testing.T) {
	plan := testPlan(t)

	tests := []struct {
		name     string
		reserved int
		actual   int
		want     int
	}{
		{name: "under reservation no penalty", reserved: 60, actual: 45, want: 280},
		{name: "exactly reserved no penalty", reserved: 45, actual: 45, want: 280},
		{name: "overstay adds flat penalty", reserved: 30, actual: 45, want: 280 + 2000},
		{name: "zero actual", reserved: 30, actual: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, plan.ComputeOverstayPriceCents(tt.reserved, tt.actual))
		})
	}
}

// Граница надбавки: при actual <= reserved цена совпадает с базовой,
// при actual > reserved строго больше ровно на величину надбавки.
func TestOverstayBoundaryProperty(t *testing.T) {
	plan := testPlan(t)
	const reserved = 90

	for actual := 0; actual <= 180; actual++ {
		base := plan.ComputePriceCents(actual)
		got := plan.ComputeOverstayPriceCents(reserved, actual)
		if actual <= reserved {
			assert.Equal(t, base, got, "actual=%d", actual)
		} else {
			assert.Equal(t, base+plan.OverstayPenaltyCents, got, "actual=%d", actual)
		}
	}
}

func TestSubscriptionPriceCents(t *testing.T) {
	plan := testPlan(t)

	price, err := plan.SubscriptionPriceCents("monthly")
	require.NoError(t, err)
	assert.Equal(t, 9900, price)

	_, err = plan.SubscriptionPriceCents("yearly")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPlan)
}

func TestMoney(t *testing.T) {
	a := NewMoney(1050, "EUR")
	b := NewMoney(200, "EUR")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, 1250, sum.AmountCents)
	assert.Equal(t, "EUR", sum.Currency)
	assert.Equal(t, "12.50 EUR", sum.String())
	assert.False(t, sum.IsZero())
	assert.True(t, NewMoney(0, "EUR").IsZero())

	_, err = a.Add(NewMoney(100, "USD"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}
