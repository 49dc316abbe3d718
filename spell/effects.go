package spell

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/df-mc/dragonfly/server/entity/effect"
)

var effectTypes = map[string]effect.LastingType{
	"speed":           effect.Speed,
	"slowness":        effect.Slowness,
	"haste":           effect.Haste,
	"mining_fatigue":  effect.MiningFatigue,
	"strength":        effect.Strength,
	"jump_boost":      effect.JumpBoost,
	"nausea":          effect.Nausea,
	"regeneration":    effect.Regeneration,
	"resistance":      effect.Resistance,
	"fire_resistance": effect.FireResistance,
	"water_breathing": effect.WaterBreathing,
	"invisibility":    effect.Invisibility,
	"blindness":       effect.Blindness,
	"night_vision":    effect.NightVision,
	"hunger":          effect.Hunger,
	"weakness":        effect.Weakness,
	"poison":          effect.Poison,
	"wither":          effect.Wither,
	"health_boost":    effect.HealthBoost,
	"absorption":      effect.Absorption,
	"levitation":      effect.Levitation,
	"slow_falling":    effect.SlowFalling,
}

// EffectType returns the lasting effect type with the name passed.
func EffectType(name string) (effect.LastingType, bool) {
	t, ok := effectTypes[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// Effects parses the potion effects under key. The value is either a map of
// effect names to levels, as written in spells.yml, or a comma separated list
// of name or name:level entries. Every effect lasts for d.
func (p Parameters) Effects(key string, d time.Duration) ([]effect.Effect, error) {
	levels := map[string]int{}
	switch val := p[key].(type) {
	case nil:
		return nil, nil
	case map[string]any:
		for name, lvl := range val {
			n, ok := toFloat(lvl)
			if !ok {
				return nil, fmt.Errorf("effect %v: invalid level %v", name, lvl)
			}
			levels[name] = int(n)
		}
	default:
		for _, entry := range p.Strings(key) {
			name, lvl, ok := strings.Cut(entry, ":")
			levels[name] = 1
			if ok {
				n, err := strconv.Atoi(strings.TrimSpace(lvl))
				if err != nil {
					return nil, fmt.Errorf("effect %v: %w", name, err)
				}
				levels[name] = n
			}
		}
	}

	effects := make([]effect.Effect, 0, len(levels))
	for name, lvl := range levels {
		t, ok := EffectType(name)
		if !ok {
			return nil, fmt.Errorf("unknown effect %q", name)
		}
		effects = append(effects, effect.New(t, max(lvl, 1), d))
	}
	return effects, nil
}
