// Package domain models maize yield prediction requests and their encoding
// into the feature layout the trained model expects.
//
// # Categorical Encoding
//
// The model was trained with scikit-learn LabelEncoders for the two
// categorical inputs (Nigerian state, quality grade). A LabelEncoder sorts
// the class labels seen at training time and assigns each label its index in
// that sorted order. [CategoryEncoder] reproduces exactly that: codes are
// positions in the sorted class list persisted in the encoder artifact.
// Lookups are case-sensitive because the training labels were; "kano" is not
// "Kano" and must be rejected, never silently defaulted.
//
// # Feature Layout
//
// The model consumes a six-slot numeric vector:
//
//	state                 LabelEncoder code for the state
//	is_wet                1 for the wet season, 0 for dry
//	year                  cultivation year
//	area_ha               farm area in hectares
//	quality_grade         LabelEncoder code for the grade
//	area_wet_interaction  area_ha × is_wet (0 for every dry-season request)
//
// Slot order is owned by the feature_names artifact ([FeatureSchema]), not
// by this package: the model silently produces garbage if the vector is
// assembled in any other order, so [EncodeFeatures] builds features by name
// and lets the schema dictate placement.
//
// # Validation Bounds
//
// Year must fall in [2000, 2030] and area in (0, 1000] hectares, matching
// the ranges covered by the training data. Season is normalized to
// lowercase and must be "wet" or "dry".
package domain
