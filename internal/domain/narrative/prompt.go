package narrative

import (
	"fmt"
	"strings"

	"ledgerlens/internal/domain/analysis"
)

// BuildPrompt renders the analysis result into the analyst prompt. Only the
// computed digest goes to the model, never raw ledger rows.
func BuildPrompt(result *analysis.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "أنت محلل مالي خبير متخصص في تحليل القوائم المالية للشركات. قم بتحليل البيانات المالية التالية لشركة %s للفترة %s:\n\n",
		result.Company, result.Period)

	s := result.Summary
	b.WriteString("📊 **قائمة الدخل (Income Statement)**\n")
	fmt.Fprintf(&b, "- إجمالي الإيرادات: %.2f\n", s.Income)
	fmt.Fprintf(&b, "- إجمالي المصروفات: %.2f\n", s.Expense)
	fmt.Fprintf(&b, "- صافي الربح/الخسارة: %.2f\n", s.Profit)
	if r := result.Ratios; r != nil {
		fmt.Fprintf(&b, "- هامش الربح الصافي: %.2f%%\n", r.NetMargin)
		fmt.Fprintf(&b, "- هامش التشغيل: %.2f%%\n", r.OperatingMargin)
	}

	b.WriteString("\n📈 **قائمة المركز المالي (Balance Sheet)**\n")
	fmt.Fprintf(&b, "- إجمالي الأصول: %.2f\n", s.Assets)
	fmt.Fprintf(&b, "- إجمالي الالتزامات: %.2f\n", s.Liabilities)
	fmt.Fprintf(&b, "- حقوق الملكية: %.2f\n", s.Equity)
	if r := result.Ratios; r != nil {
		fmt.Fprintf(&b, "- نسبة الديون للأصول: %.2f%%\n", r.DebtRatio)
	}

	if cf := result.CashFlow; cf != nil {
		b.WriteString("\n💰 **قائمة التدفقات النقدية (Cash Flow Statement)**\n")
		fmt.Fprintf(&b, "- التدفق النقدي التشغيلي: %.2f\n", cf.Operating)
		fmt.Fprintf(&b, "- التدفق النقدي الاستثماري: %.2f\n", cf.Investing)
		fmt.Fprintf(&b, "- التدفق النقدي التمويلي: %.2f\n", cf.Financing)
		fmt.Fprintf(&b, "- صافي التدفق النقدي: %.2f\n", cf.Net)
	}

	if ec := result.EquityChanges; ec != nil {
		b.WriteString("\n📋 **قائمة التغيرات في حقوق الملكية**\n")
		fmt.Fprintf(&b, "- الرصيد الافتتاحي: %.2f\n", ec.OpeningBalance)
		fmt.Fprintf(&b, "- صافي الربح: %.2f\n", ec.NetProfit)
		fmt.Fprintf(&b, "- الإضافات الرأسمالية: %.2f\n", ec.Contributions)
		fmt.Fprintf(&b, "- التوزيعات: %.2f\n", ec.Dividends)
		fmt.Fprintf(&b, "- الرصيد الختامي: %.2f\n", ec.ClosingBalance)
	}

	if r := result.Ratios; r != nil {
		b.WriteString("\n📊 **النسب المالية الرئيسية**\n")
		fmt.Fprintf(&b, "- العائد على حقوق الملكية (ROE): %.2f%%\n", r.ROE)
		fmt.Fprintf(&b, "- العائد على الأصول (ROA): %.2f%%\n", r.ROA)
		fmt.Fprintf(&b, "- النسبة الجارية: %.2f\n", r.CurrentRatio)
		fmt.Fprintf(&b, "- نسبة السيولة السريعة: %.2f\n", r.QuickRatio)
		fmt.Fprintf(&b, "- معدل دوران الأصول: %.2f\n", r.AssetTurnover)
		fmt.Fprintf(&b, "- مضاعف حقوق الملكية: %.2f\n", r.Leverage)
		fmt.Fprintf(&b, "- Z-Score: %.2f %s\n", r.ZScore, zScoreZone(r.ZScore))
	}

	if len(result.Monthly) > 0 || len(result.Quarterly) > 0 {
		b.WriteString("\n📅 **التحليل الدوري**\n")
		if len(result.Monthly) > 0 {
			fmt.Fprintf(&b, "البيانات الشهرية: %d شهر\n", len(result.Monthly))
		}
		if len(result.Quarterly) > 0 {
			fmt.Fprintf(&b, "البيانات الربعية: %d ربع\n", len(result.Quarterly))
		}
	}

	b.WriteString(`
قم بإجراء تحليل شامل ومفصل يتضمن:

1. **تحليل قائمة الدخل**: قم بتحليل الربحية، هامش الأرباح، كفاءة التكاليف، ومصادر الإيرادات
2. **تحليل المركز المالي**: حلل السيولة، هيكل رأس المال، القدرة على الوفاء بالالتزامات، والكفاءة في استخدام الأصول
3. **تحليل التدفقات النقدية**: قيّم قدرة الشركة على توليد النقد، الاستثمارات، والتمويل
4. **تحليل التغيرات في حقوق الملكية**: راجع التغيرات الرأسمالية وسياسة التوزيعات
5. **النقاط القوة والضعف**: حدد 3-5 نقاط قوة و3-5 نقاط ضعف
6. **المخاطر المالية**: حدد المخاطر الحالية والمستقبلية
7. **التوصيات الاستراتيجية**: قدم 5-7 توصيات عملية قابلة للتنفيذ لتحسين الأداء المالي
8. **التوقعات المستقبلية**: قدم رؤية للاتجاهات المستقبلية المتوقعة

يجب أن يكون التحليل:
- دقيق ومبني على الأرقام
- شامل لجميع جوانب الأداء المالي
- مكتوب بلغة عربية احترافية
- يحتوي على أمثلة وأرقام محددة
- طوله 500-700 كلمة
`)

	return b.String()
}

func zScoreZone(z float64) string {
	switch {
	case z > 2.9:
		return "(آمن)"
	case z > 1.8:
		return "(منطقة رمادية)"
	default:
		return "(خطر إفلاس)"
	}
}
