// Package packages inspects installed translation packages: the model
// directory handed to the translation delegate, the tokenizer model file and
// the optional Argos metadata.json. It also prints the installed packages for
// the --list-packages flag.
package packages
