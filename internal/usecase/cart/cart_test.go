package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestLineKey_OrderIndependent(t *testing.T) {
	variants1 := []VariantOption{{Group: "Ukuran", Option: "Besar"}, {Group: "Es", Option: "Sedikit"}}
	variants2 := []VariantOption{{Group: "Es", Option: "Sedikit"}, {Group: "Ukuran", Option: "Besar"}}
	addons1 := []Addon{{ID: "a1"}, {ID: "a2"}}
	addons2 := []Addon{{ID: "a2"}, {ID: "a1"}}

	require.Equal(t,
		LineKey("p1", variants1, addons1),
		LineKey("p1", variants2, addons2),
	)
}

func TestLineKey_DifferentSelections(t *testing.T) {
	base := LineKey("p1", nil, nil)
	require.NotEqual(t, base, LineKey("p2", nil, nil))
	require.NotEqual(t, base, LineKey("p1", []VariantOption{{Group: "Ukuran", Option: "Besar"}}, nil))
	require.NotEqual(t, base, LineKey("p1", nil, []Addon{{ID: "a1"}}))
}

func TestAddLine_MergesSameSelection(t *testing.T) {
	c := New()
	c.AddLine("p1", "Kopi Susu", dec("18000"), nil, nil)
	c.AddLine("p1", "Kopi Susu", dec("18000"), nil, nil)

	require.Len(t, c.Lines(), 1)
	require.Equal(t, 2, c.Lines()[0].Qty)
}

func TestAddLine_KeepsDistinctSelectionsApart(t *testing.T) {
	c := New()
	c.AddLine("p1", "Kopi Susu", dec("18000"), nil, nil)
	c.AddLine("p1", "Kopi Susu", dec("20000"), []VariantOption{{Group: "Ukuran", Option: "Besar"}}, nil)

	require.Len(t, c.Lines(), 2)
}

func TestSubtotal_IncludesAddons(t *testing.T) {
	l := Line{
		UnitPrice: dec("18000"),
		Qty:       2,
		Addons:    []Addon{{ID: "a1", Name: "Extra Shot", Price: dec("5000")}},
	}
	// (18000 + 5000) * 2
	require.True(t, l.Subtotal().Equal(dec("46000")), "got %s", l.Subtotal())
}

func TestSetQuantity_ZeroRemovesLine(t *testing.T) {
	c := New()
	added := c.AddLine("p1", "Kopi Susu", dec("18000"), nil, nil)

	c.SetQuantity(added.Key, 5)
	require.Equal(t, 5, c.Lines()[0].Qty)

	c.SetQuantity(added.Key, 0)
	require.True(t, c.IsEmpty())
}

func TestTotal(t *testing.T) {
	c := New()
	a := c.AddLine("p1", "Kopi Susu", dec("18000"), nil, nil)
	c.SetQuantity(a.Key, 2)
	c.AddLine("p2", "Roti Bakar", dec("15000"), nil, nil)

	require.True(t, c.Total().Equal(dec("51000")), "got %s", c.Total())
}

func TestFromLines_EmptySnapshot(t *testing.T) {
	_, err := FromLines(nil)
	require.ErrorIs(t, err, ErrEmptyCart)

	_, err = FromLines([]Line{})
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestFromLines_RejectsInvalid(t *testing.T) {
	_, err := FromLines([]Line{{ProductID: "p1", UnitPrice: dec("10000"), Qty: 0}})
	require.ErrorIs(t, err, ErrInvalidLine)

	_, err = FromLines([]Line{{ProductID: "", UnitPrice: dec("10000"), Qty: 1}})
	require.ErrorIs(t, err, ErrInvalidLine)

	_, err = FromLines([]Line{{ProductID: "p1", UnitPrice: dec("-1"), Qty: 1}})
	require.ErrorIs(t, err, ErrInvalidLine)
}

func TestFromLines_CollapsesDuplicateSnapshotEntries(t *testing.T) {
	c, err := FromLines([]Line{
		{ProductID: "p1", ProductName: "Kopi Susu", UnitPrice: dec("18000"), Qty: 2},
		{ProductID: "p1", ProductName: "Kopi Susu", UnitPrice: dec("18000"), Qty: 3},
	})
	require.NoError(t, err)
	require.Len(t, c.Lines(), 1)
	require.Equal(t, 5, c.Lines()[0].Qty)
}

func TestQtyOf_AggregatesAcrossVariants(t *testing.T) {
	c := New()
	a := c.AddLine("p1", "Kopi Susu", dec("18000"), nil, nil)
	c.SetQuantity(a.Key, 2)
	b := c.AddLine("p1", "Kopi Susu", dec("20000"), []VariantOption{{Group: "Ukuran", Option: "Besar"}}, nil)
	c.SetQuantity(b.Key, 1)

	require.Equal(t, 3, c.QtyOf("p1"))
	require.Equal(t, 0, c.QtyOf("p9"))
}

func TestUnitPriceOf_WeightedAcrossLines(t *testing.T) {
	c := New()
	a := c.AddLine("p1", "Kopi Susu", dec("18000"), nil, nil)
	c.SetQuantity(a.Key, 2)
	c.AddLine("p1", "Kopi Susu", dec("21000"), []VariantOption{{Group: "Ukuran", Option: "Besar"}}, nil)

	// (18000*2 + 21000) / 3
	require.True(t, c.UnitPriceOf("p1").Equal(dec("19000")), "got %s", c.UnitPriceOf("p1"))
	require.True(t, c.UnitPriceOf("p9").IsZero())
}
