package report

import (
	"context"
	"fmt"

	"github.com/songzhibin97/quantrisk/internal/risk"
)

// Narrator defines methods for rendering a risk report as human-readable text
type Narrator interface {
	// Narrate produces a text summary that embeds the report JSON verbatim
	Narrate(ctx context.Context, report *risk.Report) (string, error)
}

// BuildPrompt 构建风险报告解读的提示词，报告JSON原文嵌入其中
func BuildPrompt(ticker, reportJSON string) string {
	return fmt.Sprintf(`以下是%s的量化风险报告（JSON格式）：

%s

请用简洁的中文总结这份报告，要求：
1. 先给出一句话的整体风险评价
2. 逐项解读VaR、波动率、最大回撤、β、流动性与压力测试结果
3. 说明建议仓位与止损位
4. 明确指出所有状态为WARNING或BREACH的风险限额
5. JSON中的null表示指标无定义，不要当作0解读

输出为markdown格式的分析摘要。`, ticker, reportJSON)
}

// Compose 将摘要与报告JSON原文拼接成最终输出
func Compose(summary, reportJSON string) string {
	return fmt.Sprintf("%s\n\n```json\n%s\n```\n", summary, reportJSON)
}
