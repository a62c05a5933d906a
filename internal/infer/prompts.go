package infer

import "fmt"

// voiceParsePrompt instructs the text model to return one strict JSON object
// with the transaction fields, constrained to the fixed category vocabulary.
func voiceParsePrompt(text string) string {
	return fmt.Sprintf(`请从以下文本中提取记账信息，返回 JSON 格式：
文本："%s"

请返回以下格式的 JSON（不要其他内容）：
{"type": "expense 或 income", "amount": 数字, "category": "分类名称", "description": "备注"}

分类选项：
- 支出：餐饮、交通、购物、娱乐、住房、医疗、教育、通讯、其他
- 收入：工资、奖金、兼职、投资、其他`, text)
}

// receiptScanPrompt asks the vision model for the payment amount, merchant
// and category of a photographed receipt or payment screenshot. The closing
// reminder measurably improves how often the amount lands in the JSON field.
const receiptScanPrompt = `这是一张支付截图或消费账单。请告诉我：

1. 支付金额是多少？（只写数字，如：48.40）
2. 商家名称是什么？
3. 属于什么消费类别？（餐饮/购物/交通/娱乐/其他）

请用以下JSON格式回答：
{"amount": 48.40, "merchant": "商家名", "category": "购物", "date": ""}

重要提示：请仔细看图片中显示的金额数字（¥符号后面的数字），并准确填写到amount字段中。`
