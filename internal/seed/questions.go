package seed

import "github.com/adityawrmn/campus-eval-api/internal/models"

// Question catalogs are compiled in; they are reference data, not admin
// managed content.

var lecturerQuestionCategories = []models.QuestionCategory{
	{
		ID:   1,
		Name: "Penguasaan Materi",
		Questions: []models.Question{
			{ID: 1, Text: "Dosen menguasai materi dengan baik"},
			{ID: 2, Text: "Dosen memberikan penjelasan yang mudah dipahami"},
			{ID: 3, Text: "Dosen mampu menjawab pertanyaan mahasiswa dengan jelas"},
			{ID: 4, Text: "Dosen menggunakan contoh-contoh yang relevan"},
		},
	},
	{
		ID:   2,
		Name: "Metode Pengajaran",
		Questions: []models.Question{
			{ID: 5, Text: "Metode pengajaran yang digunakan menarik"},
			{ID: 6, Text: "Dosen menggunakan media pembelajaran yang variatif"},
			{ID: 7, Text: "Dosen mendorong mahasiswa untuk aktif di kelas"},
			{ID: 8, Text: "Materi yang diajarkan sesuai dengan RPS"},
		},
	},
	{
		ID:   3,
		Name: "Komunikasi",
		Questions: []models.Question{
			{ID: 9, Text: "Dosen berkomunikasi dengan sopan dan ramah"},
			{ID: 10, Text: "Dosen mudah dihubungi di luar jam kuliah"},
			{ID: 11, Text: "Dosen responsif terhadap pertanyaan mahasiswa"},
		},
	},
	{
		ID:   4,
		Name: "Penilaian",
		Questions: []models.Question{
			{ID: 12, Text: "Sistem penilaian yang diterapkan jelas dan transparan"},
			{ID: 13, Text: "Dosen memberikan feedback terhadap tugas/ujian"},
			{ID: 14, Text: "Penilaian yang diberikan objektif dan adil"},
		},
	},
	{
		ID:   5,
		Name: "Kedisiplinan",
		Questions: []models.Question{
			{ID: 15, Text: "Dosen hadir tepat waktu"},
			{ID: 16, Text: "Dosen memanfaatkan waktu perkuliahan dengan efektif"},
		},
	},
}

var facilityQuestionCategories = []models.QuestionCategory{
	{
		ID:   1,
		Name: "Kebersihan",
		Questions: []models.Question{
			{ID: 1, Text: "Fasilitas ini selalu dalam kondisi bersih dan terawat"},
			{ID: 2, Text: "Toilet/kamar mandi (jika ada) dalam kondisi bersih"},
			{ID: 3, Text: "Area sekitar fasilitas bebas dari sampah dan kotoran"},
		},
	},
	{
		ID:   2,
		Name: "Kelengkapan",
		Questions: []models.Question{
			{ID: 4, Text: "Peralatan/perlengkapan yang tersedia berfungsi dengan baik"},
			{ID: 5, Text: "Jumlah peralatan/perlengkapan memadai untuk jumlah pengguna"},
			{ID: 6, Text: "Fasilitas pendukung (AC, proyektor, dll) tersedia dan berfungsi"},
		},
	},
	{
		ID:   3,
		Name: "Kenyamanan",
		Questions: []models.Question{
			{ID: 7, Text: "Pencahayaan di fasilitas ini sudah memadai"},
			{ID: 8, Text: "Sirkulasi udara/ventilasi nyaman"},
			{ID: 9, Text: "Tingkat kebisingan di area ini tidak mengganggu"},
			{ID: 10, Text: "Suhu ruangan nyaman untuk aktivitas"},
		},
	},
	{
		ID:   4,
		Name: "Aksesibilitas",
		Questions: []models.Question{
			{ID: 11, Text: "Lokasi fasilitas mudah dijangkau"},
			{ID: 12, Text: "Fasilitas dapat digunakan sesuai jadwal yang ditentukan"},
		},
	},
}

// QuestionCategories returns the question catalog for the given kind, or nil
// for an unknown kind.
func QuestionCategories(kind models.EvaluationKind) []models.QuestionCategory {
	switch kind {
	case models.KindLecturer:
		return lecturerQuestionCategories
	case models.KindFacility:
		return facilityQuestionCategories
	default:
		return nil
	}
}

// QuestionCount returns the number of questions on the form for a kind.
func QuestionCount(kind models.EvaluationKind) int {
	total := 0
	for _, category := range QuestionCategories(kind) {
		total += len(category.Questions)
	}
	return total
}

// KnownQuestionIDs returns the set of valid question ids for a kind.
func KnownQuestionIDs(kind models.EvaluationKind) map[int64]struct{} {
	ids := make(map[int64]struct{})
	for _, category := range QuestionCategories(kind) {
		for _, q := range category.Questions {
			ids[q.ID] = struct{}{}
		}
	}
	return ids
}
