package session

import pkgerrors "github.com/sardorqobilov/fieldsale-client/pkg/errors"

var errNoSelection = pkgerrors.New(pkgerrors.CodeValidation, "no product selected")
