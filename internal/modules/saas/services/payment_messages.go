package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

func paymentLinkText(language, url string) string {
	ar := fmt.Sprintf("شكراً لطلبك! 🎉\n\nيمكنك إتمام الدفع الآن من خلال الرابط التالي:\n%s\n\nطرق الدفع المتاحة:\n💳 Visa / Mastercard\n🍎 Apple Pay\n\nالدفع آمن 100%% 🔒", url)
	en := fmt.Sprintf("Thank you for your order! 🎉\n\nYou can complete the payment here:\n%s\n\nAccepted methods:\n💳 Visa / Mastercard\n🍎 Apple Pay\n\nPayment is 100%% secure 🔒", url)
	return byLanguage(language, ar, en)
}

func paymentConfirmedText(language, orderID string, amount decimal.Decimal, currency string) string {
	total := amount.StringFixed(2) + " " + strings.ToUpper(currency)
	ar := fmt.Sprintf("تم استلام الدفع بنجاح! ✅\n\nرقم الطلب: %s\nالمبلغ: %s\n\nسيتم تجهيز طلبك وشحنه قريباً 📦", orderID, total)
	en := fmt.Sprintf("Payment received! ✅\n\nOrder: %s\nAmount: %s\n\nYour order will be prepared and shipped soon 📦", orderID, total)
	return byLanguage(language, ar, en)
}

func byLanguage(language, ar, en string) string {
	switch language {
	case "ar":
		return ar
	case "en":
		return en
	default:
		return ar + "\n\n" + en
	}
}
