package catalog

import "github.com/agri365/agri365/internal/core/model"

// DefaultEntries is the built-in master database used when no other source
// is configured.
func DefaultEntries() []model.CatalogEntry {
	return []model.CatalogEntry{
		{
			Type:   model.TypeDisease,
			Name:   "Late Blight",
			Target: "Tomato",
			Info:   "Caused by Phytophthora infestans. Symptoms include dark spots on leaves.",
			Rec:    "Use Metalaxyl-based fungicides.",
			Tags:   []string{"tomoto", "blight", "fungus"},
		},
		{
			Type:   model.TypeDisease,
			Name:   "Early Blight",
			Target: "Tomato",
			Info:   "Caused by Alternaria solani. Produces concentric rings on leaves.",
			Rec:    "Apply Chlorothalonil sprays.",
			Tags:   []string{"tomato", "leaves"},
		},
		{
			Type:   model.TypePest,
			Name:   "Aphids",
			Target: "Universal",
			Info:   "Small sap-sucking insects. Transmit plant viruses.",
			Rec:    "Wash with high-pressure water or use Neem Oil.",
			Tags:   []string{"bugs", "insects"},
		},
		{
			Type:   model.TypePest,
			Name:   "Spider Mites",
			Target: "Universal",
			Info:   "Tiny arachnids causing stippling on leaves.",
			Rec:    "Increase humidity and use Abamectin.",
			Tags:   []string{"mites", "webs"},
		},
		{
			Type:   model.TypeCrop,
			Name:   "Wheat",
			Info:   "Major cereal grain. Requires cool weather during tillering.",
			Market: "₹2,500 per quintal",
		},
		{
			Type:   model.TypeCrop,
			Name:   "Tomato",
			Info:   "Widely grown fruit/vegetable. Susceptible to blights.",
			Market: "₹20-30 per kg",
			Tags:   []string{"tomoto", "tamatar"},
		},
		{
			Type:   model.TypeCrop,
			Name:   "Rice",
			Info:   "Staple food crop. Requires standing water.",
			Market: "₹3,500 per quintal",
		},
		{
			Type:   model.TypeCrop,
			Name:   "Maize",
			Info:   "Versatile crop used for food, feed, and fuel.",
			Market: "₹2,200 per quintal",
		},
	}
}

// Default builds a catalog from DefaultEntries.
func Default() *Catalog {
	c, err := New(DefaultEntries())
	if err != nil {
		panic(err)
	}
	return c
}
