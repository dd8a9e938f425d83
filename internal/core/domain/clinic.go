package domain

// Clinic is a static reference entity: the organisational unit a user
// operates within. The set is fixed at build time; the backend only ever
// refers to clinics by ID.
type Clinic struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Manager string `json:"manager"`
}

// clinics is the known clinic registry, ordered by ID.
var clinics = []Clinic{
	{ID: 1, Name: "Image Main Clinic", Manager: "Dr. S. Rahman"},
	{ID: 2, Name: "Image EMOC Centre", Manager: "Dr. F. Akter"},
	{ID: 3, Name: "Image RDF Clinic", Manager: "Dr. M. Hossain"},
	{ID: 4, Name: "Image Outdoor Unit", Manager: "Dr. N. Sultana"},
	{ID: 5, Name: "Image Counseling Centre", Manager: "Dr. T. Islam"},
}

// Clinics returns a copy of the clinic registry.
func Clinics() []Clinic {
	out := make([]Clinic, len(clinics))
	copy(out, clinics)
	return out
}

// ClinicByID looks up a clinic in the registry. The second return value is
// false when the ID matches no known clinic.
func ClinicByID(id int) (Clinic, bool) {
	for _, c := range clinics {
		if c.ID == id {
			return c, true
		}
	}
	return Clinic{}, false
}
