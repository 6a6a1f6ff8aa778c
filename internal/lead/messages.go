package lead

// MessageTemplate is a canned outreach message for leads in one status.
type MessageTemplate struct {
	Status      Status `json:"status"`
	Title       string `json:"title"`
	TitleAr     string `json:"titleAr"`
	Message     string `json:"message"`
	Description string `json:"description"`
}

var statusOrder = []Status{
	StatusNew,
	StatusContacted,
	StatusReplied,
	StatusDemoSent,
	StatusConverted,
	StatusLost,
}

var messages = map[Status]MessageTemplate{
	StatusNew: {
		Status:      StatusNew,
		Title:       "Initial Contact",
		TitleAr:     "التواصل الأول",
		Message:     `السلام عليكم 👋

شفت حسابكم وعجبني شغلكم كتير! 💜

أنا متخصص في بناء صفحات طلب احترافية للبراندات الصغيرة.

لاحظت إن كتير من العملاء ممكن يضيعوا بسبب صعوبة الطلب من الـ DM أو الواتساب.

عندي عرض مجاني: أعمللكم تحليل سريع لوضع الطلبات عندكم وأوريكم كيف ممكن تزيدوا مبيعاتكم.

هل تحبوا نتكلم؟ 🙏`,
		Description: "First message to introduce yourself and offer free audit",
	},
	StatusContacted: {
		Status:      StatusContacted,
		Title:       "Follow-up Message",
		TitleAr:     "متابعة",
		Message:     `السلام عليكم مرة تانية 😊

بعتلكم رسالة قبل كذا يوم عن خدمة صفحات الطلب.

فقط حبيت أتأكد إن الرسالة وصلتكم!

لو عندكم أي أسئلة أنا موجود 🙏`,
		Description: "Follow-up if no response after initial contact",
	},
	StatusReplied: {
		Status:      StatusReplied,
		Title:       "After Reply - Build Interest",
		TitleAr:     "بعد الرد",
		Message:     `أهلاً وسهلاً! شكراً على الرد 🙏

الخدمة ببساطة:
✅ صفحة طلب احترافية باسم براندكم
✅ لوحة تحكم لإدارة الطلبات والمنتجات
✅ تتبع حالة كل طلب
✅ تصميم يناسب هوية البراند

النتيجة: طلبات أكتر + وقت أقل في الردود + شكل احترافي

حابين أوريكم demo سريع؟ 🎯`,
		Description: "Explain the service after they show interest",
	},
	StatusDemoSent: {
		Status:      StatusDemoSent,
		Title:       "After Demo - Close the Deal",
		TitleAr:     "بعد الديمو",
		Message:     `أهلاً! 👋

إن شاء الله عجبكم الـ Demo اللي بعتته 🎯

الباقة تشمل:
📱 صفحة طلب بتصميم خاص
💻 لوحة تحكم كاملة
📦 إدارة المنتجات والمخزون
📊 تتبع الطلبات والإحصائيات

السعر: [أضف السعر هنا]
مدة التنفيذ: [أضف المدة هنا]

جاهزين نبدأ؟ 🚀`,
		Description: "Follow up after sending demo to close the sale",
	},
	StatusConverted: {
		Status:      StatusConverted,
		Title:       "Welcome & Onboarding",
		TitleAr:     "ترحيب",
		Message:     `مبروك! 🎉

أهلاً بيكم في العائلة!

الخطوات الجاية:
1️⃣ هنحتاج منكم: اسم البراند + الشعار + الألوان المفضلة
2️⃣ قائمة المنتجات مع الأسعار والصور
3️⃣ معلومات التواصل (رقم الواتساب للطلبات)

متى يناسبكم نبدأ؟ 💪`,
		Description: "Welcome message after successful conversion",
	},
	StatusLost: {
		Status:      StatusLost,
		Title:       "Re-engagement",
		TitleAr:     "إعادة التواصل",
		Message:     `السلام عليكم 👋

أتمنى تكونوا بخير!

تواصلنا قبل فترة عن خدمة صفحات الطلب.

حبيت أخبركم إن عندنا عروض جديدة الفترة دي 🎁

لو حابين تسمعوا أكتر، أنا موجود!

تحياتي 🙏`,
		Description: "Try to re-engage lost leads with new offers",
	},
}

func MessageByStatus(s Status) (MessageTemplate, bool) {
	m, ok := messages[s]
	return m, ok
}

// AllMessages returns every template in pipeline order.
func AllMessages() []MessageTemplate {
	out := make([]MessageTemplate, 0, len(statusOrder))
	for _, s := range statusOrder {
		out = append(out, messages[s])
	}
	return out
}
