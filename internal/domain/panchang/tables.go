package panchang

import "github.com/panchang/core/internal/domain/entities"

// Fixed name tables for the simplified Panchang derivation. Index order
// is significant everywhere: tithi indexes 0..14 within a paksha,
// nakshatra indexes 0..26, weekday indexes Sunday..Saturday.

var tithiNames = map[string][15]string{
	entities.LangEnglish: {
		"Pratipada", "Dwitiya", "Tritiya", "Chaturthi", "Panchami",
		"Shashthi", "Saptami", "Ashtami", "Navami", "Dashami",
		"Ekadashi", "Dwadashi", "Trayodashi", "Chaturdashi", "Purnima/Amavasya",
	},
	entities.LangHindi: {
		"प्रतिपदा", "द्वितीया", "तृतीया", "चतुर्थी", "पंचमी",
		"षष्ठी", "सप्तमी", "अष्टमी", "नवमी", "दशमी",
		"एकादशी", "द्वादशी", "त्रयोदशी", "चतुर्दशी", "पूर्णिमा/अमावस्या",
	},
	entities.LangSanskrit: {
		"प्रतिपदा", "द्वितीया", "तृतीया", "चतुर्थी", "पञ्चमी",
		"षष्ठी", "सप्तमी", "अष्टमी", "नवमी", "दशमी",
		"एकादशी", "द्वादशी", "त्रयोदशी", "चतुर्दशी", "पूर्णिमा/अमावस्या",
	},
}

var pakshaNames = map[string][2]string{
	// index 0: Shukla (waxing), index 1: Krishna (waning)
	entities.LangEnglish:  {"Shukla Paksha", "Krishna Paksha"},
	entities.LangHindi:    {"शुक्ल पक्ष", "कृष्ण पक्ष"},
	entities.LangSanskrit: {"शुक्लपक्षः", "कृष्णपक्षः"},
}

var nakshatraNames = map[string][27]string{
	entities.LangEnglish: {
		"Ashwini", "Bharani", "Krittika", "Rohini", "Mrigashira",
		"Ardra", "Punarvasu", "Pushya", "Ashlesha", "Magha",
		"Purva Phalguni", "Uttara Phalguni", "Hasta", "Chitra", "Swati",
		"Vishakha", "Anuradha", "Jyeshtha", "Mula", "Purva Ashadha",
		"Uttara Ashadha", "Shravana", "Dhanishta", "Shatabhisha", "Purva Bhadrapada",
		"Uttara Bhadrapada", "Revati",
	},
	entities.LangHindi: {
		"अश्विनी", "भरणी", "कृत्तिका", "रोहिणी", "मृगशिरा",
		"आर्द्रा", "पुनर्वसु", "पुष्य", "आश्लेषा", "मघा",
		"पूर्व फाल्गुनी", "उत्तर फाल्गुनी", "हस्त", "चित्रा", "स्वाती",
		"विशाखा", "अनुराधा", "ज्येष्ठा", "मूल", "पूर्व आषाढ़ा",
		"उत्तर आषाढ़ा", "श्रवण", "धनिष्ठा", "शतभिषा", "पूर्व भाद्रपद",
		"उत्तर भाद्रपद", "रेवती",
	},
	entities.LangSanskrit: {
		"अश्विनी", "भरणी", "कृत्तिका", "रोहिणी", "मृगशिरा",
		"आर्द्रा", "पुनर्वसु", "पुष्य", "आश्लेषा", "मघा",
		"पूर्व फाल्गुनी", "उत्तर फाल्गुनी", "हस्त", "चित्रा", "स्वाती",
		"विशाखा", "अनुराधा", "ज्येष्ठा", "मूल", "पूर्व आषाढा",
		"उत्तर आषाढा", "श्रवण", "धनिष्ठा", "शतभिषा", "पूर्व भाद्रपद",
		"उत्तर भाद्रपद", "रेवती",
	},
}

var dayNames = map[string][7]string{
	entities.LangEnglish: {
		"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
	},
	entities.LangHindi: {
		"रविवार", "सोमवार", "मंगलवार", "बुधवार", "गुरुवार", "शुक्रवार", "शनिवार",
	},
	entities.LangSanskrit: {
		"रविवासरः", "सोमवासरः", "मङ्गलवासरः", "बुधवासरः", "गुरुवासरः", "शुक्रवासरः", "शनिवासरः",
	},
}

var monthNames = map[string][12]string{
	entities.LangEnglish: {
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	},
	entities.LangHindi: {
		"जनवरी", "फरवरी", "मार्च", "अप्रैल", "मई", "जून",
		"जुलाई", "अगस्त", "सितंबर", "अक्टूबर", "नवंबर", "दिसंबर",
	},
	entities.LangSanskrit: {
		"जनवरी", "फरवरी", "मार्च", "अप्रैल", "मई", "जून",
		"जुलाई", "अगस्त", "सितम्बर", "अक्टूबर", "नवम्बर", "दिसम्बर",
	},
}

// majorFestivals maps MM-DD keys to festival names, independent of year.
var majorFestivals = map[string]entities.LocalizedText{
	"01-14": {En: "Makar Sankranti", Hi: "मकर संक्रांति", Sa: "मकरसङ्क्रान्तिः"},
	"01-26": {En: "Republic Day", Hi: "गणतंत्र दिवस", Sa: "गणतन्त्रदिवसः"},
	"02-14": {En: "Valentine's Day", Hi: "वेलेंटाइन दिवस", Sa: ""},
	"03-08": {En: "Holi", Hi: "होली", Sa: "होलिका"},
	"03-25": {En: "Holi", Hi: "होली", Sa: "होलिका"},
	"04-14": {En: "Ambedkar Jayanti", Hi: "अंबेडकर जयंती", Sa: "अम्बेडकरजयन्ती"},
	"04-17": {En: "Ram Navami", Hi: "राम नवमी", Sa: "रामनवमी"},
	"05-01": {En: "Labour Day", Hi: "श्रम दिवस", Sa: "श्रमदिवसः"},
	"06-16": {En: "Eid al-Adha", Hi: "ईद उल अज़हा", Sa: ""},
	"07-17": {En: "Guru Purnima", Hi: "गुरु पूर्णिमा", Sa: "गुरुपूर्णिमा"},
	"08-15": {En: "Independence Day", Hi: "स्वतंत्रता दिवस", Sa: "स्वतन्त्रतादिवसः"},
	"08-26": {En: "Raksha Bandhan", Hi: "रक्षा बंधन", Sa: "रक्षाबन्धनम्"},
	"08-30": {En: "Janmashtami", Hi: "जन्माष्टमी", Sa: "जन्माष्टमी"},
	"09-07": {En: "Ganesh Chaturthi", Hi: "गणेश चतुर्थी", Sa: "गणेशचतुर्थी"},
	"09-17": {En: "Onam", Hi: "ओणम", Sa: "ओणम"},
	"10-02": {En: "Gandhi Jayanti", Hi: "गांधी जयंती", Sa: "गान्धीजयन्ती"},
	"10-12": {En: "Dussehra", Hi: "दशहरा", Sa: "दशहरा"},
	"10-31": {En: "Diwali", Hi: "दिवाली", Sa: "दीपावलिः"},
	"11-01": {En: "Govardhan Puja", Hi: "गोवर्धन पूजा", Sa: "गोवर्धनपूजा"},
	"11-02": {En: "Bhai Dooj", Hi: "भाई दूज", Sa: "भ्रातृद्वितीया"},
	"11-14": {En: "Children's Day", Hi: "बाल दिवस", Sa: "बालदिवसः"},
	"12-25": {En: "Christmas", Hi: "क्रिसमस", Sa: "क्रिसमसः"},
}

// Synthetic tithi-derived festival entries.
var (
	festivalEkadashi = entities.LocalizedText{En: "Ekadashi", Hi: "एकादशी", Sa: "एकादशी"}
	festivalPurnima  = entities.LocalizedText{En: "Purnima", Hi: "पूर्णिमा", Sa: "पूर्णिमा"}
	festivalAmavasya = entities.LocalizedText{En: "Amavasya", Hi: "अमावस्या", Sa: "अमावस्या"}
)

// nationalHolidays lists fixed-date national holidays.
var nationalHolidays = []holiday{
	{month: 1, day: 26, name: entities.LocalizedText{En: "Republic Day", Hi: "गणतंत्र दिवस", Sa: "गणतन्त्रदिवसः"}},
	{month: 8, day: 15, name: entities.LocalizedText{En: "Independence Day", Hi: "स्वतंत्रता दिवस", Sa: "स्वतन्त्रतादिवसः"}},
	{month: 10, day: 2, name: entities.LocalizedText{En: "Gandhi Jayanti", Hi: "गांधी जयंती", Sa: "गान्धीजयन्ती"}},
}

// optionalHolidays lists fixed-date optional (regional) holidays.
var optionalHolidays = []holiday{
	{month: 1, day: 1, name: entities.LocalizedText{En: "New Year's Day", Hi: "नव वर्ष", Sa: "नववर्षः"}},
	{month: 4, day: 14, name: entities.LocalizedText{En: "Ambedkar Jayanti", Hi: "अंबेडकर जयंती", Sa: "अम्बेडकरजयन्ती"}},
	{month: 5, day: 1, name: entities.LocalizedText{En: "Labour Day", Hi: "श्रम दिवस", Sa: "श्रमदिवसः"}},
	{month: 11, day: 14, name: entities.LocalizedText{En: "Children's Day", Hi: "बाल दिवस", Sa: "बालदिवसः"}},
	{month: 12, day: 25, name: entities.LocalizedText{En: "Christmas", Hi: "क्रिसमस", Sa: "क्रिसमसः"}},
}

// MonthName returns the localized month name for months 1..12.
func MonthName(month int) entities.LocalizedText {
	return entities.LocalizedText{
		En: monthNames[entities.LangEnglish][month-1],
		Hi: monthNames[entities.LangHindi][month-1],
		Sa: monthNames[entities.LangSanskrit][month-1],
	}
}
