package infer

import "testing"

func TestClassifyText(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantType     TransactionType
		wantCategory string
	}{
		{
			name:         "taxi ride is transport expense",
			text:         "打车回家30元",
			wantType:     TypeExpense,
			wantCategory: "交通",
		},
		{
			name:         "salary is income",
			text:         "发工资了8000",
			wantType:     TypeIncome,
			wantCategory: CategorySalary,
		},
		{
			name:         "bonus is income",
			text:         "年终奖金到账",
			wantType:     TypeIncome,
			wantCategory: CategorySalary,
		},
		{
			name:         "lunch is food expense",
			text:         "午餐花了35元",
			wantType:     TypeExpense,
			wantCategory: "餐饮",
		},
		{
			name:         "coffee is food expense",
			text:         "买了杯咖啡",
			wantType:     TypeExpense,
			wantCategory: "餐饮",
		},
		{
			name:         "movie is entertainment",
			text:         "看电影花了60",
			wantType:     TypeExpense,
			wantCategory: "娱乐",
		},
		{
			name:         "rent is housing",
			text:         "交了这个月的房租",
			wantType:     TypeExpense,
			wantCategory: "住房",
		},
		{
			name:         "hospital visit is medical",
			text:         "去医院看病",
			wantType:     TypeExpense,
			wantCategory: "医疗",
		},
		{
			name:         "course is education",
			text:         "报了一个课程",
			wantType:     TypeExpense,
			wantCategory: "教育",
		},
		{
			name:         "phone bill is communication",
			text:         "充了50话费",
			wantType:     TypeExpense,
			wantCategory: "通讯",
		},
		{
			name:         "no keyword falls back to other",
			text:         "12345",
			wantType:     TypeExpense,
			wantCategory: CategoryOther,
		},
		{
			name:         "empty text falls back to other",
			text:         "",
			wantType:     TypeExpense,
			wantCategory: CategoryOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotType, gotCategory := ClassifyText(tt.text)
			if gotType != tt.wantType {
				t.Errorf("ClassifyText(%q) type = %v, want %v", tt.text, gotType, tt.wantType)
			}
			if gotCategory != tt.wantCategory {
				t.Errorf("ClassifyText(%q) category = %v, want %v", tt.text, gotCategory, tt.wantCategory)
			}
		})
	}
}

// Rules are an ordered list; when a text hits keywords from several
// categories the earliest rule wins.
func TestClassifyTextFirstMatchWins(t *testing.T) {
	// 吃 belongs to 餐饮, 车 to 交通. 餐饮 sits earlier in the list.
	gotType, gotCategory := ClassifyText("吃完饭打车回家")
	if gotType != TypeExpense || gotCategory != "餐饮" {
		t.Errorf("ClassifyText() = (%v, %v), want (%v, 餐饮)", gotType, gotCategory, TypeExpense)
	}

	// Income keywords take precedence over every expense rule.
	gotType, gotCategory = ClassifyText("收到外卖平台的退款")
	if gotType != TypeIncome || gotCategory != CategorySalary {
		t.Errorf("ClassifyText() = (%v, %v), want (%v, %v)", gotType, gotCategory, TypeIncome, CategorySalary)
	}
}

func TestClassifyTextDeterministic(t *testing.T) {
	const text = "晚上和朋友吃饭还看了电影"
	firstType, firstCategory := ClassifyText(text)
	for i := 0; i < 10; i++ {
		gotType, gotCategory := ClassifyText(text)
		if gotType != firstType || gotCategory != firstCategory {
			t.Fatalf("run %d: ClassifyText(%q) = (%v, %v), want stable (%v, %v)",
				i, text, gotType, gotCategory, firstType, firstCategory)
		}
	}
}
