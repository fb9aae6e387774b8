package domain

// Dua is a supplication with its Urdu and English translations
type Dua struct {
	Title   LocalizedText `json:"title"`
	Arabic  string        `json:"arabic"`
	Urdu    string        `json:"urdu"`
	English string        `json:"english"`
}

// Translation returns the translation for a language code, English by default
func (d Dua) Translation(lang string) string {
	if lang == "ur" {
		return d.Urdu
	}
	return d.English
}

var (
	SehriDua = Dua{
		Title:   LocalizedText{En: "Sehri Dua", Ur: "دعا برائے سحری"},
		Arabic:  "وَبِصَوْمِ غَدٍ نَّوَيْتُ مِنْ شَهْرِ رَمَضَانَ",
		Urdu:    "اور میں نے ماہ رمضان کے کل کے روزے کی نیت کی",
		English: "I intend to keep the fast for tomorrow in the month of Ramadan",
	}

	IftarDua = Dua{
		Title:   LocalizedText{En: "Iftar Dua", Ur: "دعا برائے افطار"},
		Arabic:  "اللَّهُمَّ اِنِّى لَكَ صُمْتُ وَبِكَ امَنْتُ وَعَلَيْكَ تَوَكَّلْتُ وَعَلَى رِزْقِكَ اَفْطَرْتُ",
		Urdu:    "اے اللہ! میں نے تیرے لیے روزہ رکھا اور تجھ پر ایمان لایا اور تیرے ہی دیے ہوئے رزق سے افطار کیا",
		English: "O Allah! I fasted for You and I believe in You and I put my trust in You and I break my fast with Your sustenance",
	}
)

var ashraDuas = map[Ashra]Dua{
	AshraMercy: {
		Title:   LocalizedText{En: "First Ashra Dua", Ur: "پہلے عشرے کی دعا"},
		Arabic:  "رَبِّ اغْفِرْ وَارْحَمْ وَأَنْتَ خَيْرُ الرَّاحِمِينَ",
		Urdu:    "اے میرے رب! مجھے بخش دے اور مجھ پر رحم فرما، تو سب سے بہتر رحم کرنے والا ہے۔",
		English: "O My Lord! Forgive and have mercy, for You are the Best of those who show mercy.",
	},
	AshraForgiveness: {
		Title:   LocalizedText{En: "Second Ashra Dua", Ur: "دوسرے عشرے کی دعا"},
		Arabic:  "أَسْتَغْفِرُ اللَّهَ رَبِّي مِنْ كُلِّ ذَنْبٍ وَأَتُوبُ إِلَيْهِ",
		Urdu:    "میں اللہ سے اپنے تمام گناہوں کی بخشش مانگتا ہوں جو میرا رب ہے اور اسی کی طرف رجوع کرتا ہوں",
		English: "I seek forgiveness from Allah, my Lord, from every sin, and I turn to Him in repentance.",
	},
	AshraSalvation: {
		Title:   LocalizedText{En: "Third Ashra Dua", Ur: "تیسرے عشرے کی دعا"},
		Arabic:  "اللَّهُمَّ أَجِرْنِي مِنَ النَّارِ",
		Urdu:    "اے اللہ! مجھے آگ کے عذاب سے بچا",
		English: "O Allah! Save me from the fire of Hell.",
	},
}

// AshraDua returns the dua recited during an Ashra
func AshraDua(a Ashra) (Dua, bool) {
	d, ok := ashraDuas[a]
	return d, ok
}

// CurrentDua picks the dua for the boundary being approached: the Iftar dua
// while fasting, the Sehri dua otherwise.
func CurrentDua(c Countdown) Dua {
	if c.State == StateBeforeEnd {
		return IftarDua
	}
	return SehriDua
}

// DuasOf returns the current dua followed by the Ashra dua of the target
// record. The Ashra dua is omitted once the timetable is complete.
func DuasOf(c Countdown) []Dua {
	duas := []Dua{CurrentDua(c)}
	if c.Complete() || c.Record.HijriDate == 0 {
		return duas
	}
	if d, ok := AshraDua(AshraOf(c.Record.HijriDate)); ok {
		duas = append(duas, d)
	}
	return duas
}
