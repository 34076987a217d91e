// Package contacts loads the teacher directory from a contacts export and
// resolves schedule names to email addresses.
//
// The export is a Google-style contacts CSV (or its .xlsx equivalent). Rows
// whose phonetic first name is filled in belong to students and are dropped.
// Names are reduced to a bag of ASCII words; a schedule name matches a contact
// when all of its words appear in the contact's name.
package contacts
