package session

// sampleJSON is the document behind the "load sample" action.
const sampleJSON = `{
  "name": "APIWIZ",
  "age": 30,
  "active": true,
  "address": {
    "street": "123 Main St",
    "city": "Bengaluru",
    "zipcode": "560001"
  }
}`

// Sample returns the sample document, indented with two spaces.
func Sample() string { return sampleJSON }
