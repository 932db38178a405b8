// Package index provisions the clinical-trials index and bulk-loads
// trial documents into it.
package index

// Mapping is the index definition. dynamic:false keeps stray fields in
// source dumps from polluting the mapping; the suggest subfields back
// the search-as-you-type autocomplete queries.
const Mapping = `{
  "settings": {
    "number_of_shards": 1,
    "number_of_replicas": 0,
    "analysis": {
      "analyzer": {
        "clinical_analyzer": {
          "type": "custom",
          "tokenizer": "standard",
          "filter": ["lowercase", "asciifolding"]
        }
      }
    }
  },
  "mappings": {
    "dynamic": false,
    "properties": {
      "nct_id": {"type": "keyword"},
      "phase": {"type": "keyword"},
      "overall_status": {"type": "keyword"},
      "gender": {"type": "keyword"},
      "study_type": {"type": "keyword"},
      "intervention_model": {"type": "keyword"},
      "primary_purpose": {"type": "keyword"},
      "source": {"type": "keyword"},
      "acronym": {"type": "keyword"},
      "allocation": {"type": "keyword"},
      "masking": {"type": "keyword"},
      "minimum_age": {"type": "keyword"},
      "maximum_age": {"type": "keyword"},
      "brief_title": {
        "type": "text",
        "analyzer": "clinical_analyzer",
        "fields": {
          "suggest": {"type": "search_as_you_type"},
          "keyword": {"type": "keyword", "ignore_above": 512}
        }
      },
      "official_title": {
        "type": "text",
        "analyzer": "clinical_analyzer",
        "fields": {
          "suggest": {"type": "search_as_you_type"},
          "keyword": {"type": "keyword", "ignore_above": 512}
        }
      },
      "brief_summaries_description": {"type": "text", "analyzer": "clinical_analyzer"},
      "detailed_description": {"type": "text", "analyzer": "clinical_analyzer"},
      "enrollment": {"type": "integer"},
      "start_date": {"type": "date"},
      "completion_date": {"type": "date"},
      "primary_completion_date": {"type": "date"},
      "healthy_volunteers": {"type": "boolean"},
      "has_results": {"type": "boolean"},
      "sponsors": {
        "type": "nested",
        "properties": {
          "name": {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
          "agency_class": {"type": "keyword"},
          "lead_or_collaborator": {"type": "keyword"}
        }
      },
      "facilities": {
        "type": "nested",
        "properties": {
          "name": {"type": "text"},
          "city": {"type": "keyword"},
          "state": {"type": "keyword"},
          "zip": {"type": "keyword"},
          "country": {"type": "keyword"},
          "status": {"type": "keyword"}
        }
      },
      "design_outcomes": {
        "type": "nested",
        "properties": {
          "outcome_type": {"type": "keyword"},
          "measure": {"type": "text", "analyzer": "clinical_analyzer"},
          "time_frame": {"type": "text"},
          "description": {"type": "text", "analyzer": "clinical_analyzer"}
        }
      },
      "age": {
        "type": "nested",
        "properties": {
          "age_category": {"type": "keyword"}
        }
      },
      "conditions": {
        "type": "nested",
        "properties": {
          "name": {"type": "text", "analyzer": "clinical_analyzer", "fields": {"keyword": {"type": "keyword"}}}
        }
      },
      "interventions": {
        "type": "nested",
        "properties": {
          "intervention_type": {"type": "keyword"},
          "name": {"type": "text", "analyzer": "clinical_analyzer", "fields": {"keyword": {"type": "keyword"}}},
          "description": {"type": "text", "analyzer": "clinical_analyzer"}
        }
      },
      "keywords": {
        "type": "nested",
        "properties": {
          "name": {"type": "text", "fields": {"keyword": {"type": "keyword"}}}
        }
      },
      "browse_conditions": {
        "type": "nested",
        "properties": {
          "mesh_term": {"type": "text", "analyzer": "clinical_analyzer", "fields": {"keyword": {"type": "keyword"}}}
        }
      },
      "browse_interventions": {
        "type": "nested",
        "properties": {
          "mesh_term": {"type": "text", "analyzer": "clinical_analyzer", "fields": {"keyword": {"type": "keyword"}}}
        }
      }
    }
  }
}`
