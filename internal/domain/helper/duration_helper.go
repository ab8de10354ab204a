package helper

import (
	"regexp"
	"strconv"
)

var (
	hoursPattern   = regexp.MustCompile(`(\d+)\s*h`)
	minutesPattern = regexp.MustCompile(`(\d+)\s*m`)
)

// ParseDurationHours は "2h 15m" 形式の所要時間を時間単位の小数に変換する
// 時間・分のどちらかが無い場合は0として扱い、不正な文字列は0を返す
func ParseDurationHours(s string) float64 {
	if s == "" {
		return 0
	}

	var total float64
	if m := hoursPattern.FindStringSubmatch(s); m != nil {
		if h, err := strconv.Atoi(m[1]); err == nil {
			total += float64(h)
		}
	}
	if m := minutesPattern.FindStringSubmatch(s); m != nil {
		if min, err := strconv.Atoi(m[1]); err == nil {
			total += float64(min) / 60
		}
	}
	return total
}
