package lmf

import "sort"

// Vocabulary is a fixed set of permitted attribute values.
type Vocabulary struct {
	name string
	set  map[string]struct{}
}

func newVocabulary(name string, values ...string) Vocabulary {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return Vocabulary{name: name, set: set}
}

// Name returns a short description of the vocabulary.
func (v Vocabulary) Name() string { return v.name }

// Has reports whether s is a permitted value.
func (v Vocabulary) Has(s string) bool {
	_, ok := v.set[s]
	return ok
}

// Values returns the permitted values in sorted order.
func (v Vocabulary) Values() []string {
	out := make([]string, 0, len(v.set))
	for s := range v.set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// PartsOfSpeech are the values of Lemma and Synset partOfSpeech attributes.
var PartsOfSpeech = newVocabulary("part of speech",
	"n", // noun
	"v", // verb
	"a", // adjective
	"r", // adverb
	"s", // adjective satellite
	"t", // phrase
	"c", // conjunction
	"p", // adposition
	"x", // other
	"u", // unknown
)

// AdjPositions are the values of the Sense adjposition attribute.
var AdjPositions = newVocabulary("adjposition",
	"a",  // attributive
	"ip", // immediate postnominal
	"p",  // predicative
)

// SenseRelations are the relation types between two senses.
var SenseRelations = newVocabulary("sense relation",
	"antonym",
	"also",
	"participle",
	"pertainym",
	"derivation",
	"domain_topic",
	"has_domain_topic",
	"domain_region",
	"has_domain_region",
	"exemplifies",
	"is_exemplified_by",
	"similar",
	"other",
	"simple_aspect_ip",
	"secondary_aspect_ip",
	"simple_aspect_pi",
	"secondary_aspect_pi",
	"feminine",
	"has_feminine",
	"masculine",
	"has_masculine",
	"young",
	"has_young",
	"diminutive",
	"has_diminutive",
	"augmentative",
	"has_augmentative",
	"anto_gradable",
	"anto_simple",
	"anto_converse",
	"metonym",
	"has_metonym",
	"agent",
	"material",
	"event",
	"instrument",
	"location",
	"by_means_of",
	"undergoer",
	"property",
	"result",
	"state",
	"uses",
	"destination",
	"body_part",
	"vehicle",
)

// SenseSynsetRelations are the relation types from a sense to a synset.
var SenseSynsetRelations = newVocabulary("sense-synset relation",
	"domain_topic",
	"domain_region",
	"exemplifies",
	"other",
)

// SynsetRelations are the relation types between two synsets.
var SynsetRelations = newVocabulary("synset relation",
	"agent",
	"also",
	"attribute",
	"be_in_state",
	"causes",
	"classified_by",
	"classifies",
	"co_agent_instrument",
	"co_agent_patient",
	"co_agent_result",
	"co_instrument_agent",
	"co_instrument_patient",
	"co_instrument_result",
	"co_patient_agent",
	"co_patient_instrument",
	"co_result_agent",
	"co_result_instrument",
	"co_role",
	"direction",
	"domain_region",
	"domain_topic",
	"exemplifies",
	"entails",
	"eq_synonym",
	"has_domain_region",
	"has_domain_topic",
	"is_exemplified_by",
	"holo_location",
	"holo_member",
	"holo_part",
	"holo_portion",
	"holo_substance",
	"holonym",
	"hypernym",
	"hyponym",
	"in_manner",
	"instance_hypernym",
	"instance_hyponym",
	"instrument",
	"involved",
	"involved_agent",
	"involved_direction",
	"involved_instrument",
	"involved_location",
	"involved_patient",
	"involved_result",
	"involved_source_direction",
	"involved_target_direction",
	"is_caused_by",
	"is_entailed_by",
	"location",
	"manner_of",
	"mero_location",
	"mero_member",
	"mero_part",
	"mero_portion",
	"mero_substance",
	"meronym",
	"similar",
	"other",
	"patient",
	"restricted_by",
	"restricts",
	"result",
	"role",
	"source_direction",
	"state_of",
	"target_direction",
	"subevent",
	"is_subevent_of",
	"antonym",
	"feminine",
	"has_feminine",
	"masculine",
	"has_masculine",
	"young",
	"has_young",
	"diminutive",
	"has_diminutive",
	"augmentative",
	"has_augmentative",
	"anto_gradable",
	"anto_simple",
	"anto_converse",
	"ir_synonym",
)

// booleans are the accepted literals of boolean attributes, after lowercasing.
var booleans = newVocabulary("boolean", "true", "false")
