package translit

// wordTable maps curated Persian words and phrases to English equivalents.
// Multi-word entries must be matched before their constituent words, so the
// synthesizer applies entries longest first (see Synthesizer.words).
//
// The table is heuristic, not authoritative: it covers the vocabulary that
// shows up in application UIs, which is where the tool spends its life.
var wordTable = map[string]string{
	// Actions
	"ذخیره":       "save",
	"حذف":         "delete",
	"ویرایش":      "edit",
	"افزودن":      "add",
	"جستجو":       "search",
	"ورود":        "login",
	"خروج":        "logout",
	"ثبت نام":     "register",
	"ارسال":       "submit",
	"دریافت":      "receive",
	"دانلود":      "download",
	"بارگذاری":    "upload",
	"تایید":       "confirm",
	"تأیید":       "confirm",
	"لغو":         "cancel",
	"بستن":        "close",
	"باز کردن":    "open",
	"چاپ":         "print",
	"کپی":         "copy",
	"انتخاب":      "select",
	"نمایش":       "show",
	"مخفی":        "hide",
	"به روزرسانی": "update",
	"بروزرسانی":   "update",
	"بازگشت":      "back",
	"ادامه":       "continue",
	"شروع":        "start",
	"پایان":       "end",
	"پرداخت":      "payment",
	"خرید":        "buy",
	"فروش":        "sell",

	// Nouns
	"کاربر":     "user",
	"نام کاربری": "username",
	"رمز عبور":  "password",
	"نام":       "name",
	"پیام":      "message",
	"خطا":       "error",
	"هشدار":     "warning",
	"موفقیت":    "success",
	"تنظیمات":   "settings",
	"صفحه":      "page",
	"خانه":      "home",
	"درباره":    "about",
	"تماس":      "contact",
	"فایل":      "file",
	"پوشه":      "folder",
	"تصویر":     "image",
	"ویدیو":     "video",
	"صدا":       "audio",
	"متن":       "text",
	"عنوان":     "title",
	"توضیحات":   "description",
	"تاریخ":     "date",
	"زمان":      "time",
	"لیست":      "list",
	"جدول":      "table",
	"گزارش":     "report",
	"راهنما":    "help",
	"قیمت":      "price",
	"تعداد":     "count",
	"مجموع":     "total",
	"سبد خرید":  "shopping cart",
	"حساب":      "account",
	"پروفایل":   "profile",
	"آدرس":      "address",
	"شماره":     "number",
	"ایمیل":     "email",
	"تلفن":      "phone",

	// Qualifiers and small words
	"جدید":     "new",
	"قدیمی":    "old",
	"بعدی":     "next",
	"قبلی":     "previous",
	"بله":      "yes",
	"خیر":      "no",
	"همه":      "all",
	"هیچ":      "none",
	"فعال":     "active",
	"غیرفعال":  "inactive",
	"امروز":    "today",
	"دیروز":    "yesterday",
	"فردا":     "tomorrow",
	"خوش آمدید": "welcome",
	"لطفا":     "please",
	"لطفاً":    "please",
	"با":       "with",
	"از":       "from",
	"به":       "to",
	"در":       "in",
	"و":        "and",
	"یا":       "or",
	"برای":     "for",
	"این":      "this",
	"آن":       "that",
	"شما":      "you",
	"من":       "me",
	"است":      "is",
	"نیست":     "is not",
	"شد":       "done",
	"کنید":     "do",
	"کردن":     "do",
	"مورد":     "item",
	"موفقیت آمیز": "successful",
	"با موفقیت": "successfully",
}

// charTable maps individual Persian/Arabic runes to Latin sequences.
// Unmapped runes pass through unchanged; the slugify stage drops anything
// that is not [a-z0-9 ] anyway.
var charTable = map[rune]string{
	'ا': "a", 'آ': "a", 'أ': "a", 'إ': "e", 'ء': "", 'ئ': "", 'ؤ': "o",
	'ب': "b", 'پ': "p", 'ت': "t", 'ث': "s",
	'ج': "j", 'چ': "ch", 'ح': "h", 'خ': "kh",
	'د': "d", 'ذ': "z", 'ر': "r", 'ز': "z", 'ژ': "zh",
	'س': "s", 'ش': "sh", 'ص': "s", 'ض': "z",
	'ط': "t", 'ظ': "z", 'ع': "a", 'غ': "gh",
	'ف': "f", 'ق': "gh", 'ک': "k", 'ك': "k", 'گ': "g",
	'ل': "l", 'م': "m", 'ن': "n",
	'و': "v", 'ه': "h", 'ة': "h", 'ی': "y", 'ي': "y", 'ى': "a",
}

// digitTable folds Persian (U+06F0..U+06F9) and Arabic-Indic (U+0660..U+0669)
// digits to their ASCII equivalents.
var digitTable = map[rune]rune{
	'۰': '0', '۱': '1', '۲': '2', '۳': '3', '۴': '4',
	'۵': '5', '۶': '6', '۷': '7', '۸': '8', '۹': '9',
	'٠': '0', '١': '1', '٢': '2', '٣': '3', '٤': '4',
	'٥': '5', '٦': '6', '٧': '7', '٨': '8', '٩': '9',
}
