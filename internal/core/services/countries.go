package services

import "github.com/WooHyucks/nbbang-backend/internal/dto"

// supportedCountries lists the selectable trip destinations in display
// order. The currency code drives rate resolution for the trip.
var supportedCountries = []dto.CountryResponse{
	{Code: "KR", Name: "대한민국", Currency: "KRW"},
	{Code: "JP", Name: "일본", Currency: "JPY"},
	{Code: "US", Name: "미국", Currency: "USD"},
	{Code: "CN", Name: "중국", Currency: "CNY"},
	{Code: "TW", Name: "대만", Currency: "TWD"},
	{Code: "GB", Name: "영국", Currency: "GBP"},
	{Code: "EU", Name: "유럽연합", Currency: "EUR"},
	{Code: "TH", Name: "태국", Currency: "THB"},
	{Code: "VN", Name: "베트남", Currency: "VND"},
	{Code: "PH", Name: "필리핀", Currency: "PHP"},
	{Code: "SG", Name: "싱가포르", Currency: "SGD"},
	{Code: "MY", Name: "말레이시아", Currency: "MYR"},
	{Code: "ID", Name: "인도네시아", Currency: "IDR"},
	{Code: "AU", Name: "호주", Currency: "AUD"},
	{Code: "NZ", Name: "뉴질랜드", Currency: "NZD"},
	{Code: "CA", Name: "캐나다", Currency: "CAD"},
}

// currencyForCountry maps a country code to its currency, reporting
// whether the country is supported.
func currencyForCountry(code string) (string, bool) {
	for _, c := range supportedCountries {
		if c.Code == code {
			return c.Currency, true
		}
	}
	return "", false
}
