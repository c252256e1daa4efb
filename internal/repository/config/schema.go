package config

const servicesSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["deliveryServices"],
  "properties": {
    "deliveryServices": {
      "type": "object",
      "additionalProperties": { "$ref": "#/definitions/deliveryService" }
    }
  },
  "definitions": {
    "deliveryService": {
      "type": "object",
      "required": ["routingName", "coverageZoneOnly"],
      "properties": {
        "routingName": { "type": "string", "minLength": 1 },
        "coverageZoneOnly": { "type": "boolean" },
        "ttls": { "type": ["object", "null"] },
        "geoEnabled": { "type": ["array", "null"], "items": { "type": "object" } },
        "geoLimitRedirectURL": { "type": ["string", "null"] },
        "staticDnsEntries": { "type": ["array", "null"] },
        "domains": { "type": ["array", "null"], "items": { "type": "string" } },
        "soa": { "type": ["object", "null"] },
        "appendQueryString": { "type": "boolean" },
        "missLocation": {
          "type": ["object", "null"],
          "properties": {
            "lat": { "type": "number" },
            "long": { "type": "number" }
          }
        },
        "ip6RoutingEnabled": { "type": "boolean" },
        "responseHeaders": { "type": ["object", "null"], "additionalProperties": { "type": "string" } },
        "requestHeaders": { "type": ["array", "null"], "items": { "type": "string" } },
        "regionalGeoBlocking": { "type": "boolean" },
        "geolocationProvider": { "type": ["string", "null"] },
        "sslEnabled": { "type": "boolean" },
        "anonymousBlockingEnabled": { "type": "boolean" },
        "protocol": {
          "type": ["object", "null"],
          "properties": {
            "acceptHttp": { "type": "boolean" },
            "acceptHttps": { "type": "boolean" },
            "redirectToHttps": { "type": "boolean" }
          }
        },
        "deepCachingType": { "type": ["string", "null"] },
        "transInfoType": { "type": ["string", "null"] },
        "locationFailoverLimit": { "type": "integer" },
        "maxDnsIpsForLocation": { "type": "integer" },
        "bypassDestination": {
          "type": ["object", "null"],
          "properties": {
            "HTTP": {
              "type": ["object", "null"],
              "properties": {
                "fqdn": { "type": ["string", "null"] },
                "port": { "type": ["integer", "string"] }
              }
            },
            "DNS": {
              "type": ["object", "null"],
              "properties": {
                "ttl": { "type": ["integer", "null"] },
                "ip": { "type": ["string", "null"] },
                "ip6": { "type": ["string", "null"] },
                "cname": { "type": ["string", "null"] }
              }
            }
          }
        }
      }
    }
  }
}`

const statesSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["deliveryServices"],
  "properties": {
    "deliveryServices": {
      "type": "object",
      "additionalProperties": {
        "type": ["object", "null"],
        "properties": {
          "isAvailable": { "type": "boolean" },
          "disabledLocations": { "type": ["array", "null"], "items": { "type": "string" } }
        }
      }
    }
  }
}`
