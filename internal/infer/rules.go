package infer

import "strings"

// Category labels shared across the rule table, prompts, and defaults.
const (
	CategorySalary   = "工资"
	CategoryShopping = "购物"
	CategoryOther    = "其他"
)

// incomeKeywords mark a text as income; income always lands in the salary
// bucket.
var incomeKeywords = []string{"收入", "工资", "奖金", "收到", "进账"}

// CategoryRule pairs a category label with its trigger keywords.
type CategoryRule struct {
	Category string
	Keywords []string
}

// expenseRules is an ordered list, not a map: when a text matches keywords
// from several categories, the earliest rule wins. Tests pin this tie-break.
var expenseRules = []CategoryRule{
	{"餐饮", []string{"吃", "餐", "饭", "午餐", "晚餐", "早餐", "外卖", "饮料", "咖啡", "奶茶"}},
	{"交通", []string{"车", "打车", "地铁", "公交", "油费", "停车", "高铁", "机票", "滴滴"}},
	{"购物", []string{"买", "购物", "超市", "淘宝", "京东", "商场", "衣服"}},
	{"娱乐", []string{"电影", "游戏", "唱歌", "KTV", "旅游", "玩"}},
	{"住房", []string{"房租", "水电", "物业", "燃气"}},
	{"医疗", []string{"医院", "药", "看病", "体检"}},
	{"教育", []string{"书", "课程", "学费", "培训"}},
	{"通讯", []string{"话费", "网费", "流量"}},
}

// ClassifyText infers {type, category} from free text using the fixed
// keyword tables. Pure function: identical input always yields identical
// output.
func ClassifyText(text string) (TransactionType, string) {
	for _, kw := range incomeKeywords {
		if strings.Contains(text, kw) {
			return TypeIncome, CategorySalary
		}
	}
	for _, rule := range expenseRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(text, kw) {
				return TypeExpense, rule.Category
			}
		}
	}
	return TypeExpense, CategoryOther
}
