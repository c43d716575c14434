package story

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/iWorld-y/story_radar/app/story_radar/pkg/model"
)

// 支持的货币
const (
	CurrencyUSD = "usd"
	CurrencyINR = "inr"
)

// 以货币展示的指标，其余按普通数字展示
var moneyMetrics = map[string]bool{
	model.MetricRevenue: true,
	model.MetricFunding: true,
	"market_size":       true,
}

// FormatAmount 把金额格式化成易读文本
// usd: >= 100 万显示为 $5M，否则千分位；inr: >= 1 千万显示为 ₹3 crores，否则印度式分组
func FormatAmount(value float64, currency string) string {
	switch strings.ToLower(currency) {
	case CurrencyINR:
		if value >= 1e7 {
			return fmt.Sprintf("₹%s crores", strconv.FormatFloat(math.Round(value/1e7), 'f', 0, 64))
		}
		return "₹" + groupDigits(value, true)
	case CurrencyUSD:
		if value >= 1e6 {
			return fmt.Sprintf("$%sM", strconv.FormatFloat(math.Round(value/1e6), 'f', 0, 64))
		}
		return "$" + groupDigits(value, false)
	default:
		return strconv.FormatFloat(value, 'f', -1, 64)
	}
}

// Figures 为每个有数值的指标生成一行 "name: amount (source)"
// 核心指标按固定顺序在前，其余按名称排序，最后是 market_size
func Figures(s *model.Story, currency string) []string {
	var lines []string
	add := func(name string, m model.Metric) {
		if m.Value == nil {
			return
		}
		unit := ""
		if moneyMetrics[name] {
			unit = currency
		}
		lines = append(lines, fmt.Sprintf("%s: %s (%s)", name, FormatAmount(*m.Value, unit), m.Source))
	}

	seen := make(map[string]bool, len(model.KnownMetrics))
	for _, name := range model.KnownMetrics {
		seen[name] = true
		if m, ok := s.Metrics[name]; ok {
			add(name, m)
		}
	}
	extra := make([]string, 0, len(s.Metrics))
	for name := range s.Metrics {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		add(name, s.Metrics[name])
	}
	add("market_size", s.Context.MarketSize)
	return lines
}

// groupDigits 保留最多三位小数并按区域习惯插入分隔符
func groupDigits(value float64, indian bool) string {
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}
	text := strconv.FormatFloat(value, 'f', 3, 64)
	intPart, frac, _ := strings.Cut(text, ".")
	frac = strings.TrimRight(frac, "0")

	var groups []string
	if indian && len(intPart) > 3 {
		groups = append(groups, intPart[len(intPart)-3:])
		intPart = intPart[:len(intPart)-3]
		for len(intPart) > 2 {
			groups = append(groups, intPart[len(intPart)-2:])
			intPart = intPart[:len(intPart)-2]
		}
	} else {
		for len(intPart) > 3 {
			groups = append(groups, intPart[len(intPart)-3:])
			intPart = intPart[:len(intPart)-3]
		}
	}
	groups = append(groups, intPart)
	for i, j := 0, len(groups)-1; i < j; i, j = i+1, j-1 {
		groups[i], groups[j] = groups[j], groups[i]
	}

	out := sign + strings.Join(groups, ",")
	if frac != "" {
		out += "." + frac
	}
	return out
}
