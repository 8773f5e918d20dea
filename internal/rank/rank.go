// Package rank maps cumulative spend to a loyalty title.
package rank

// Threshold is one tier of the loyalty table: the minimum total spend (in the
// smallest currency unit) that earns Title.
type Threshold struct {
	Min   int64
	Title string
}

// Table is an ordered set of thresholds, highest Min first. The last entry must
// have Min == 0 so every spend resolves to a title. A Table is built once and
// never mutated.
type Table []Threshold

// Default returns the store's tier table.
func Default() Table {
	return Table{
		{Min: 500000, Title: "إمبراطور العدم 👑"},
		{Min: 300000, Title: "ملك اللاشيء 💎"},
		{Min: 200000, Title: "أمير الفراغ 🏆"},
		{Min: 100000, Title: "نبيل العدم ⭐"},
		{Min: 50000, Title: "فارس اللاشيء 🌟"},
		{Min: 20000, Title: "تاجر العدم ✨"},
		{Min: 10000, Title: "مبتدئ اللاشيء 🎯"},
		{Min: 0, Title: "زائر جديد 🌱"},
	}
}

// Resolve returns the title of the highest tier whose Min does not exceed
// totalSpent. Negative input resolves to the floor tier.
func (t Table) Resolve(totalSpent int64) string {
	for _, tier := range t {
		if totalSpent >= tier.Min {
			return tier.Title
		}
	}

	return t[len(t)-1].Title
}

// Floor returns the title earned at zero spend, used for freshly created users.
func (t Table) Floor() string {
	return t[len(t)-1].Title
}
