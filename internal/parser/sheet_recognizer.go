package parser

import (
	"strings"
	"unicode"

	"github.com/belajarexportimport-sudo/Oceanland/internal/model"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// sheetRule 工作表名称关键字规则
type sheetRule struct {
	kind    model.Kind
	aliases []string
}

// sheetRules 按顺序匹配，先命中者优先
// 前四条与历史导入行为一致（revenue/kpi/budget/turnover），其余为扩展数据集
var sheetRules = []sheetRule{
	{model.KindRevenue, []string{"revenue", "monthly", "pendapatan"}},
	{model.KindKPI, []string{"kpi", "performa"}},
	{model.KindBudget, []string{"budget", "anggaran"}},
	{model.KindARTurnover, []string{"turnover", "ar turnover", "perputaran piutang"}},
	{model.KindPipeline, []string{"pipeline"}},
	{model.KindCashFlow, []string{"cash flow", "cashflow", "arus kas"}},
	{model.KindProfitMargin, []string{"margin"}},
	{model.KindGrowthRate, []string{"growth", "pertumbuhan"}},
	{model.KindMarketShare, []string{"market share", "pangsa pasar"}},
	{model.KindSegmentation, []string{"segment"}},
	{model.KindProductSales, []string{"product", "produk"}},
}

// SheetRecognizer Sheet 类型识别器
type SheetRecognizer struct {
	rules []sheetRule
}

// NewSheetRecognizer 创建识别器
func NewSheetRecognizer() *SheetRecognizer {
	return &SheetRecognizer{rules: sheetRules}
}

// Recognize 根据工作表名称识别数据集类型，无法识别时返回 Unknown
func (r *SheetRecognizer) Recognize(sheetName string) SheetRecognitionResult {
	name := NormalizeSheetName(sheetName)
	for _, rule := range r.rules {
		for _, alias := range rule.aliases {
			if strings.Contains(name, alias) {
				return SheetRecognitionResult{SheetName: sheetName, Kind: rule.kind, Alias: alias}
			}
		}
	}
	return SheetRecognitionResult{SheetName: sheetName, Kind: model.KindUnknown}
}

// Classify 识别工作表名称对应的数据集类型
func Classify(sheetName string) model.Kind {
	return NewSheetRecognizer().Recognize(sheetName).Kind
}

// NormalizeSheetName 规范化工作表名：去重音、小写、下划线/连字符视为空格、合并空白
func NormalizeSheetName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	folded = strings.ToLower(folded)
	folded = strings.NewReplacer("_", " ", "-", " ").Replace(folded)
	return strings.Join(strings.Fields(folded), " ")
}
