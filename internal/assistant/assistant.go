// Package assistant implements the conversational financial-assistant path:
// an AI-backed reply when a backend is configured, degrading to a small
// canned-response table.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"pal-budget/internal/ai"
)

// historyWindow is how many prior turns are sent to the model. Older turns
// are ignored; nothing is persisted across restarts.
const historyWindow = 6

const chatTimeout = 60 * time.Second

// systemPrompt primes the 小猪 persona.
const systemPrompt = `你是一个可爱的记账助手"小猪"🐷，帮助用户管理财务、分析消费习惯、提供理财建议。

你的特点：
- 说话友善、可爱，适当使用 emoji
- 提供实用的理财建议
- 分析消费数据时给出具体建议
- 鼓励用户养成良好的记账习惯

回复要求：
- 简洁明了，重点突出
- 适当分段，易于阅读
- 给出具体可操作的建议`

// Turn is one prior message of the conversation, caller-supplied.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Reply is the assistant's answer. AIPowered is false for canned and
// generic fallback replies.
type Reply struct {
	Text      string
	AIPowered bool
}

// cannedReply pairs a trigger phrase with its fixed answer. The table is
// ordered: the first matching entry wins.
type cannedReply struct {
	Trigger string
	Text    string
}

var cannedReplies = []cannedReply{
	{
		Trigger: "本月花费分析",
		Text:    "根据您本月的消费记录，餐饮支出占比最高，建议适当控制外卖频率，可以节省不少开支哦~ 🐷",
	},
	{
		Trigger: "省钱建议",
		Text:    "建议您：\n1. 📝 记录每笔支出，了解消费习惯\n2. 💰 设定月度预算\n3. 🛒 减少冲动消费\n4. 🎁 多利用优惠活动",
	},
	{
		Trigger: "理财建议",
		Text:    "建议将收入分为：\n• 50% 日常开支\n• 30% 储蓄\n• 20% 投资理财\n\n先建立应急基金，再考虑其他投资方式~ 📈",
	},
}

// Assistant answers free-form finance questions.
type Assistant struct {
	svc   ai.Service
	model string
	log   zerolog.Logger
}

// New creates an assistant using the given completion service and text model.
func New(svc ai.Service, model string, log zerolog.Logger) *Assistant {
	return &Assistant{svc: svc, model: model, log: log}
}

// Reply answers query given the prior turns. The AI path is attempted when
// configured; any failure falls back to the canned table, and finally to a
// generic reply that echoes the query.
func (a *Assistant) Reply(ctx context.Context, query string, history []Turn) Reply {
	if a.svc.Enabled() {
		if text, ok := a.replyWithModel(ctx, query, history); ok {
			return Reply{Text: text, AIPowered: true}
		}
	}

	for _, c := range cannedReplies {
		// A canned entry also fires when any single character of its trigger
		// phrase appears in the query, which over-matches on short queries.
		// TODO: decide whether whole-phrase matching was intended; see
		// TestReplyCannedCharacterMatch before changing this.
		if strings.Contains(query, c.Trigger) || containsAnyChar(query, c.Trigger) {
			return Reply{Text: c.Text}
		}
	}

	text := fmt.Sprintf("收到您的问题啦~ 目前 AI 助手还在学习中，暂时无法回答「%s」\n\n💡 提示：配置 AI_API_KEY 环境变量可启用智能回复功能", query)
	return Reply{Text: text}
}

func (a *Assistant) replyWithModel(ctx context.Context, query string, history []Turn) (string, bool) {
	messages := []ai.Message{{Role: ai.RoleSystem, Text: systemPrompt}}

	start := 0
	if len(history) > historyWindow {
		start = len(history) - historyWindow
	}
	for _, turn := range history[start:] {
		role := ai.Role(turn.Role)
		if role != ai.RoleAssistant && role != ai.RoleSystem {
			role = ai.RoleUser
		}
		messages = append(messages, ai.Message{Role: role, Text: turn.Content})
	}
	messages = append(messages, ai.Message{Role: ai.RoleUser, Text: query})

	outcome := a.svc.Complete(ctx, ai.Request{
		Model:       a.model,
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   500,
		Timeout:     chatTimeout,
	})
	if !outcome.OK() {
		return "", false
	}
	return outcome.Content, true
}

// containsAnyChar reports whether any single character of phrase occurs in s.
func containsAnyChar(s, phrase string) bool {
	for _, r := range phrase {
		if strings.ContainsRune(s, r) {
			return true
		}
	}
	return false
}
