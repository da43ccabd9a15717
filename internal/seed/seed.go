package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/adityawrmn/campus-eval-api/internal/models"
	"github.com/adityawrmn/campus-eval-api/pkg/kvstore"
)

// Courses is the static course catalog lecturers can be assigned to.
var Courses = []models.Course{
	{ID: 1, Code: "MK001", Name: "Pemrograman Web"},
	{ID: 2, Code: "MK002", Name: "Basis Data"},
	{ID: 3, Code: "MK003", Name: "Jaringan Komputer"},
	{ID: 4, Code: "MK004", Name: "Sistem Operasi"},
	{ID: 5, Code: "MK005", Name: "Algoritma & Struktur Data"},
	{ID: 6, Code: "MK006", Name: "Kecerdasan Buatan"},
	{ID: 7, Code: "MK007", Name: "Machine Learning"},
	{ID: 8, Code: "MK008", Name: "Pemrograman Mobile"},
	{ID: 9, Code: "MK009", Name: "Framework Web"},
	{ID: 10, Code: "MK010", Name: "Matematika Diskrit"},
	{ID: 11, Code: "MK011", Name: "Logika Informatika"},
	{ID: 12, Code: "MK012", Name: "Keamanan Informasi"},
	{ID: 13, Code: "MK013", Name: "Kriptografi"},
	{ID: 14, Code: "MK014", Name: "Statistika"},
	{ID: 15, Code: "MK015", Name: "Analisis Data"},
	{ID: 16, Code: "MK016", Name: "Interaksi Manusia Komputer"},
	{ID: 17, Code: "MK017", Name: "Desain UI/UX"},
	{ID: 18, Code: "MK018", Name: "Cloud Computing"},
	{ID: 19, Code: "MK019", Name: "Sistem Terdistribusi"},
	{ID: 20, Code: "MK020", Name: "Data Mining"},
}

// FacilityCategories are the selectable facility groupings.
var FacilityCategories = []string{
	"Laboratorium",
	"Ruang Kelas",
	"Perpustakaan",
	"Ruang Pertemuan",
	"Fasilitas Umum",
}

var seededAt = time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)

func lecturers() []models.Lecturer {
	entries := []models.Lecturer{
		{ID: 1, NIP: "197805152005011001", FullName: "Dr. Ahmad Fauzi, M.Kom", Courses: []string{"Pemrograman Web", "Basis Data"}, Email: "ahmad.fauzi@kampus.ac.id", Bio: "Dosen berpengalaman dalam bidang Web Development"},
		{ID: 2, NIP: "198203102008012002", FullName: "Ir. Siti Nurhaliza, M.T", Courses: []string{"Jaringan Komputer", "Sistem Operasi"}, Email: "siti.nurhaliza@kampus.ac.id", Bio: "Spesialis dalam jaringan dan infrastruktur TI"},
		{ID: 3, NIP: "199001152012011003", FullName: "Budi Santoso, S.Kom, M.Sc", Courses: []string{"Algoritma & Struktur Data"}, Email: "budi.santoso@kampus.ac.id", Bio: "Expert dalam algoritma dan pemrograman kompetitif"},
		{ID: 4, NIP: "198506202010012004", FullName: "Prof. Dr. Rina Kusuma, M.T", Courses: []string{"Kecerdasan Buatan", "Machine Learning"}, Email: "rina.kusuma@kampus.ac.id", Bio: "Profesor dalam bidang AI dan Machine Learning"},
		{ID: 5, NIP: "199205102015011005", FullName: "Drs. Hadi Wijaya, M.Kom", Courses: []string{"Pemrograman Mobile", "Framework Web"}, Email: "hadi.wijaya@kampus.ac.id", Bio: "Praktisi dan dosen mobile development"},
		{ID: 6, NIP: "198809152011012006", FullName: "Dr. Mega Sari, S.Si, M.Kom", Courses: []string{"Matematika Diskrit", "Logika Informatika"}, Email: "mega.sari@kampus.ac.id", Bio: "Ahli matematika komputasi dan logika"},
		{ID: 7, NIP: "199510202018011007", FullName: "Andri Pratama, S.Kom, M.CS", Courses: []string{"Keamanan Informasi", "Kriptografi"}, Email: "andri.pratama@kampus.ac.id", Bio: "Cybersecurity specialist dan ethical hacker"},
		{ID: 8, NIP: "198712152009012008", FullName: "Dra. Lestari Indah, M.SI", Courses: []string{"Statistika", "Analisis Data"}, Email: "lestari.indah@kampus.ac.id", Bio: "Data scientist dan statistician"},
		{ID: 9, NIP: "199308202016011009", FullName: "Rizky Firmansyah, S.T, M.Eng", Courses: []string{"Interaksi Manusia Komputer", "Desain UI/UX"}, Email: "rizky.firmansyah@kampus.ac.id", Bio: "UI/UX designer dan HCI researcher"},
		{ID: 10, NIP: "198604102010012010", FullName: "Dr. Eng. Wahyu Setiawan, S.Kom, M.Kom", Courses: []string{"Cloud Computing", "Sistem Terdistribusi"}, Email: "wahyu.setiawan@kampus.ac.id", Bio: "Cloud architect dan distributed systems expert"},
	}
	for i := range entries {
		entries[i].Status = models.StatusActive
		entries[i].CreatedAt = seededAt
		entries[i].UpdatedAt = seededAt
	}
	return entries
}

func facilities() []models.Facility {
	entries := []models.Facility{
		{ID: 1, Code: "LAB-KOMP-01", Name: "Laboratorium Komputer 1", Category: "Laboratorium", Capacity: 40, Location: "Gedung A Lantai 2", Description: "Laboratorium dengan 40 unit komputer untuk praktikum programming", Amenities: []string{"AC", "Proyektor", "Whiteboard", "Komputer", "Internet"}, Icon: "laptop"},
		{ID: 2, Code: "LAB-KOMP-02", Name: "Laboratorium Komputer 2", Category: "Laboratorium", Capacity: 35, Location: "Gedung A Lantai 3", Description: "Laboratorium untuk praktikum jaringan dan sistem operasi", Amenities: []string{"AC", "Proyektor", "Server", "Komputer", "Internet"}, Icon: "laptop"},
		{ID: 3, Code: "RK-A-101", Name: "Ruang Kelas A.101", Category: "Ruang Kelas", Capacity: 50, Location: "Gedung A Lantai 1", Description: "Ruang kelas untuk kuliah umum dan presentasi", Amenities: []string{"AC", "Proyektor", "Whiteboard", "Sound System"}, Icon: "google-classroom"},
		{ID: 4, Code: "RK-A-201", Name: "Ruang Kelas A.201", Category: "Ruang Kelas", Capacity: 45, Location: "Gedung A Lantai 2", Description: "Ruang kelas dengan fasilitas multimedia lengkap", Amenities: []string{"AC", "Proyektor", "Whiteboard", "Sound System"}, Icon: "google-classroom"},
		{ID: 5, Code: "PERPUS-01", Name: "Perpustakaan Pusat", Category: "Perpustakaan", Capacity: 100, Location: "Gedung B Lantai 1-3", Description: "Perpustakaan dengan koleksi lengkap dan area baca yang nyaman", Amenities: []string{"AC", "WiFi", "Ruang Baca", "Komputer", "Printer"}, Icon: "book-open-page-variant"},
		{ID: 6, Code: "LAB-MULTI-01", Name: "Laboratorium Multimedia", Category: "Laboratorium", Capacity: 30, Location: "Gedung A Lantai 4", Description: "Laboratorium untuk praktikum desain grafis dan multimedia", Amenities: []string{"AC", "Komputer Spek Tinggi", "Proyektor", "Tablet Grafis"}, Icon: "palette"},
		{ID: 7, Code: "MUSHOLA-01", Name: "Mushola Kampus", Category: "Fasilitas Umum", Capacity: 80, Location: "Gedung C Lantai 1", Description: "Tempat ibadah dengan fasilitas wudhu terpisah", Amenities: []string{"AC", "Tempat Wudhu", "Sajadah", "Mukena", "Al-Quran"}, Icon: "mosque"},
		{ID: 8, Code: "KANTIN-01", Name: "Kantin Kampus", Category: "Fasilitas Umum", Capacity: 120, Location: "Area Belakang Kampus", Description: "Kantin dengan berbagai pilihan menu makanan dan minuman", Amenities: []string{"Meja Makan", "Musala Kecil", "WiFi", "Toilet"}, Icon: "food-fork-drink"},
		{ID: 9, Code: "TOILET-A", Name: "Toilet Gedung A", Category: "Fasilitas Umum", Capacity: 10, Location: "Gedung A (Setiap Lantai)", Description: "Toilet umum dengan fasilitas pria dan wanita terpisah", Amenities: []string{"Air Bersih", "Sabun", "Tisu", "Cermin"}, Icon: "toilet"},
		{ID: 10, Code: "AULA-01", Name: "Aula Serbaguna", Category: "Ruang Pertemuan", Capacity: 300, Location: "Gedung D Lantai 1", Description: "Aula untuk seminar, wisuda, dan acara besar lainnya", Amenities: []string{"AC", "Sound System", "Proyektor", "Panggung", "Kursi Lipat"}, Icon: "office-building"},
		{ID: 11, Code: "RK-B-101", Name: "Ruang Kelas B.101", Category: "Ruang Kelas", Capacity: 40, Location: "Gedung B Lantai 1", Description: "Ruang kelas standar dengan fasilitas dasar", Amenities: []string{"AC", "Proyektor", "Whiteboard"}, Icon: "google-classroom"},
		{ID: 12, Code: "LAB-JAR-01", Name: "Laboratorium Jaringan", Category: "Laboratorium", Capacity: 30, Location: "Gedung A Lantai 3", Description: "Laboratorium khusus untuk praktikum jaringan komputer", Amenities: []string{"AC", "Router", "Switch", "Komputer", "Server", "Kabel Jaringan"}, Icon: "lan"},
	}
	for i := range entries {
		entries[i].Status = models.StatusActive
		entries[i].CreatedAt = seededAt
		entries[i].UpdatedAt = seededAt
	}
	return entries
}

func date(value string) time.Time {
	t, _ := time.Parse("2006-01-02", value)
	return t
}

func periods() []models.Period {
	return []models.Period{
		{
			ID: 1, Name: "Semester Ganjil 2023/2024", AcademicYear: "2023/2024", Semester: "Ganjil",
			StartDate: date("2023-09-01"), EndDate: date("2024-01-31"), Deadline: date("2023-12-30"),
			Status: models.PeriodActive, Notes: "Periode evaluasi semester ganjil tahun ajaran 2023/2024",
			CreatedAt: time.Date(2023, 8, 15, 10, 0, 0, 0, time.UTC), UpdatedAt: time.Date(2023, 8, 15, 10, 0, 0, 0, time.UTC),
		},
		{
			ID: 2, Name: "Semester Genap 2022/2023", AcademicYear: "2022/2023", Semester: "Genap",
			StartDate: date("2023-02-01"), EndDate: date("2023-06-30"), Deadline: date("2023-06-15"),
			Status: models.PeriodCompleted, Notes: "Periode evaluasi semester genap tahun ajaran 2022/2023",
			CreatedAt: time.Date(2023, 1, 15, 10, 0, 0, 0, time.UTC), UpdatedAt: time.Date(2023, 1, 15, 10, 0, 0, 0, time.UTC),
		},
		{
			ID: 3, Name: "Semester Ganjil 2022/2023", AcademicYear: "2022/2023", Semester: "Ganjil",
			StartDate: date("2022-09-01"), EndDate: date("2023-01-31"), Deadline: date("2023-01-15"),
			Status: models.PeriodCompleted, Notes: "Periode evaluasi semester ganjil tahun ajaran 2022/2023",
			CreatedAt: time.Date(2022, 8, 15, 10, 0, 0, 0, time.UTC), UpdatedAt: time.Date(2022, 8, 15, 10, 0, 0, 0, time.UTC),
		},
	}
}

func users() ([]models.User, error) {
	studentHash, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash student password: %w", err)
	}
	adminHash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}

	return []models.User{
		{
			ID: 1, NIM: "2301010001", FullName: "Ahmad Rizki", Email: "rizki@student.ac.id",
			StudyProgram: "Manajemen Informatika", CohortYear: "2023", Semester: 3, GPA: 3.75,
			AcademicStatus: "Aktif", Role: models.RoleStudent, PasswordHash: string(studentHash),
			Active: true, CreatedAt: seededAt, UpdatedAt: seededAt,
		},
		{
			ID: 2, NIM: "admin", FullName: "Administrator", Email: "admin@kampus.ac.id",
			Role: models.RoleAdmin, PasswordHash: string(adminHash),
			Active: true, CreatedAt: seededAt, UpdatedAt: seededAt,
		},
	}, nil
}

// Initialize writes the reference catalogs into the store on first run. Keys
// that already hold data are left untouched, so startup seeding never
// overwrites admin-managed records. It replaces the legacy behavior of
// seeding as a module-load side effect.
func Initialize(ctx context.Context, store kvstore.Store, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	seeded := 0

	if ok, err := seedCatalog(ctx, store, kvstore.KeyLecturers, lecturers()); err != nil {
		return err
	} else if ok {
		seeded++
	}

	if ok, err := seedCatalog(ctx, store, kvstore.KeyFacilities, facilities()); err != nil {
		return err
	} else if ok {
		seeded++
	}

	if ok, err := seedCatalog(ctx, store, kvstore.KeyPeriods, periods()); err != nil {
		return err
	} else if ok {
		seeded++
	}

	accounts, err := users()
	if err != nil {
		return err
	}
	if ok, err := seedCatalog(ctx, store, kvstore.KeyUsers, accounts); err != nil {
		return err
	} else if ok {
		seeded++
	}

	logger.Info("reference data initialized", zap.Int("catalogs_seeded", seeded))
	return nil
}

func seedCatalog[T any](ctx context.Context, store kvstore.Store, key string, items []T) (bool, error) {
	_, err := store.Get(ctx, key)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, kvstore.ErrKeyNotFound) {
		return false, fmt.Errorf("check catalog %s: %w", key, err)
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return false, fmt.Errorf("encode catalog %s: %w", key, err)
	}
	if err := store.Set(ctx, key, string(raw)); err != nil {
		return false, fmt.Errorf("seed catalog %s: %w", key, err)
	}
	return true, nil
}
