package config

// NormalizeCategories exposes normalizeCategories to the external test package.
var NormalizeCategories = normalizeCategories
