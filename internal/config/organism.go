// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"strings"
)

// Organism selects the reference genome bundle used by a run.
type Organism int

const (
	// OrganismUnknown is the zero value and is never selectable.
	OrganismUnknown Organism = iota
	OrganismHuman
	OrganismMouse
)

// SupportedOrganisms lists every selectable organism in stable order.
func SupportedOrganisms() []Organism {
	return []Organism{OrganismHuman, OrganismMouse}
}

// ParseOrganism maps a settings key (case-insensitive, e.g. "HUMAN") to an Organism.
func ParseOrganism(key string) (Organism, error) {
	switch strings.ToUpper(strings.TrimSpace(key)) {
	case "HUMAN":
		return OrganismHuman, nil
	case "MOUSE":
		return OrganismMouse, nil
	default:
		return OrganismUnknown, &UnsupportedOrganismError{Key: key}
	}
}

func (o Organism) String() string {
	switch o {
	case OrganismHuman:
		return "HUMAN"
	case OrganismMouse:
		return "MOUSE"
	default:
		return "UNKNOWN"
	}
}

// MarshalText renders the organism key used in settings files.
func (o Organism) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Profile holds the reference-genome paths and identifiers of one organism.
type Profile struct {
	AnnotationPath   string   `json:"annotationPath"`   // gene annotation GTF
	AlignerIndexDir  string   `json:"alignerIndexDir"`  // STAR genome index
	ReferenceGenome  string   `json:"referenceGenome"`  // whole genome FASTA
	OrganismCode     string   `json:"organismCode"`     // e.g. hg19
	KnownVariants    string   `json:"knownVariants"`    // dbSNP VCF
	VariantResources []string `json:"variantResources"` // extra known-site VCFs (indels)
	AnnotationDB     string   `json:"annotationDb"`     // snpEff database
}

// profileTemplate is a Profile whose paths are relative to the data root.
type profileTemplate struct {
	annotation       string
	alignerIndex     string
	reference        string
	code             string
	knownVariants    string
	variantResources []string
	annotationDB     string
	// annotationDBPrefixes lists the snpEff database families built on this genome.
	annotationDBPrefixes []string
}

var profileTemplates = map[Organism]profileTemplate{
	OrganismHuman: {
		annotation:    "Illumina_hg19/Annotation/genes.gtf",
		alignerIndex:  "Illumina_hg19/Sequences/STARindex",
		reference:     "Illumina_hg19/Sequences/WholeGenomeFasta/genome.fa",
		code:          "hg19",
		knownVariants: "Illumina_hg19/vcf/dbsnp_138.hg19.vcf",
		variantResources: []string{
			"Illumina_hg19/vcf/Mills_and_1000G_gold_standard.indels.hg19.sites.vcf",
			"Illumina_hg19/vcf/1000G_phase1.indels.hg19.sites.vcf",
		},
		annotationDB:         "GRCh37.75",
		annotationDBPrefixes: []string{"GRCh", "hg"},
	},
	OrganismMouse: {
		annotation:    "Mus_musculus/UCSC/mm10/Annotation/genes.gtf",
		alignerIndex:  "Mus_musculus/UCSC/mm10/Sequence/STARindex",
		reference:     "Mus_musculus/UCSC/mm10/Sequence/WholeGenomeFasta/genome.fa",
		code:          "mm10",
		knownVariants: "Mus_musculus/vcf/mgp.v3.snps.rsIDdbSNPv137_ordered.vcf",
		// Mouse VCFs must be sorted against the mm10 sequence dictionary (Picard SortVcf).
		variantResources: []string{
			"Mus_musculus/vcf/mgp.v3.indels.rsIDdbSNPv137_ordered.vcf",
		},
		annotationDB:         "GRCm38.82",
		annotationDBPrefixes: []string{"GRCm", "mm"},
	},
}

// Profile builds the organism profile below dataRoot.
func (o Organism) Profile(dataRoot string) (Profile, error) {
	tmpl, ok := profileTemplates[o]
	if !ok {
		return Profile{}, &UnsupportedOrganismError{Key: o.String()}
	}
	resources := make([]string, len(tmpl.variantResources))
	for i, r := range tmpl.variantResources {
		resources[i] = joinFile(dataRoot, r)
	}
	return Profile{
		AnnotationPath:   joinFile(dataRoot, tmpl.annotation),
		AlignerIndexDir:  joinFile(dataRoot, tmpl.alignerIndex),
		ReferenceGenome:  joinFile(dataRoot, tmpl.reference),
		OrganismCode:     tmpl.code,
		KnownVariants:    joinFile(dataRoot, tmpl.knownVariants),
		VariantResources: resources,
		AnnotationDB:     tmpl.annotationDB,
	}, nil
}

// AnnotationDBFor returns the default snpEff database of an organism.
func AnnotationDBFor(o Organism) (string, bool) {
	tmpl, ok := profileTemplates[o]
	if !ok || tmpl.annotationDB == "" {
		return "", false
	}
	return tmpl.annotationDB, true
}

// annotationDBMatches reports whether db belongs to a genome build of o.
func annotationDBMatches(o Organism, db string) bool {
	tmpl, ok := profileTemplates[o]
	if !ok {
		return false
	}
	for _, prefix := range tmpl.annotationDBPrefixes {
		if strings.HasPrefix(db, prefix) {
			return true
		}
	}
	return false
}
