package elo

const (
	TierDoSomeWork = "💼 Do some work"
	TierDiamond    = "💎 Diamond"
	TierGold       = "🥇 Gold"
	TierSilver     = "🥈 Silver"
	TierBronze     = "🥉 Bronze"
	TierIron       = "⚪ Iron"
	TierCardboard  = "📦 Cardboard"
)

var tierThresholds = []struct {
	min  int
	name string
}{
	{1400, TierDoSomeWork},
	{1300, TierDiamond},
	{1250, TierGold},
	{1200, TierSilver},
	{1150, TierBronze},
	{1075, TierIron},
}

// Tiers lists every tier label from highest to lowest.
var Tiers = []string{
	TierDoSomeWork,
	TierDiamond,
	TierGold,
	TierSilver,
	TierBronze,
	TierIron,
	TierCardboard,
}

// ClassifyTier maps a rating to its tier. Thresholds are inclusive.
func ClassifyTier(rating int) string {
	for _, t := range tierThresholds {
		if rating >= t.min {
			return t.name
		}
	}
	return TierCardboard
}
